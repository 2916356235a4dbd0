package service

import (
	"context"

	"wapprove/internal/model"
	"wapprove/internal/repository"

	"gorm.io/gorm"
)

// visibilityScopes returns the gorm scopes restricting which requests the
// user may see. Staff see their own requests, managers their department's,
// directors the departments they approve for, admin and purchasing see all.
func visibilityScopes(ctx context.Context, approverRepo repository.ApproverRepository, user *model.User) ([]func(*gorm.DB) *gorm.DB, error) {
	switch user.Role {
	case model.RoleStaff:
		return []func(*gorm.DB) *gorm.DB{
			func(db *gorm.DB) *gorm.DB {
				return db.Where("requests.user_id = ?", user.ID)
			},
		}, nil

	case model.RoleManager:
		if user.DepartmentID == nil {
			return []func(*gorm.DB) *gorm.DB{denyAll}, nil
		}
		deptID := *user.DepartmentID
		return []func(*gorm.DB) *gorm.DB{
			func(db *gorm.DB) *gorm.DB {
				return db.Where("requests.department_id = ?", deptID)
			},
		}, nil

	case model.RoleDirector:
		deptIDs, err := approverRepo.DepartmentIDsForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(deptIDs) == 0 {
			return []func(*gorm.DB) *gorm.DB{denyAll}, nil
		}
		return []func(*gorm.DB) *gorm.DB{
			func(db *gorm.DB) *gorm.DB {
				return db.Where("requests.department_id IN ?", deptIDs)
			},
		}, nil

	case model.RoleAdmin, model.RolePurchasing:
		return nil, nil
	}

	return []func(*gorm.DB) *gorm.DB{denyAll}, nil
}

func denyAll(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// canViewRequest applies the same visibility rules to a single request.
func canViewRequest(ctx context.Context, approverRepo repository.ApproverRepository, user *model.User, req *model.Request) (bool, error) {
	switch user.Role {
	case model.RoleStaff:
		return req.UserID == user.ID, nil
	case model.RoleManager:
		return user.DepartmentID != nil && *user.DepartmentID == req.DepartmentID, nil
	case model.RoleDirector:
		deptIDs, err := approverRepo.DepartmentIDsForUser(ctx, user.ID)
		if err != nil {
			return false, err
		}
		for _, id := range deptIDs {
			if id == req.DepartmentID {
				return true, nil
			}
		}
		return false, nil
	case model.RoleAdmin, model.RolePurchasing:
		return true, nil
	}
	return false, nil
}
