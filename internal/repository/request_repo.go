package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wapprove/internal/model"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestFilter narrows List results. Scopes carries the caller's
// visibility predicate.
type RequestFilter struct {
	Query                string // matches request_code, description, requester name
	DepartmentID         string
	UserID               string
	Status               string
	UrgencyLevel         string
	CurrentApprovalLevel int
	StartDate            *time.Time
	EndDate              *time.Time
	SortBy               string
	SortOrder            string
	Page                 int
	Limit                int
	Scopes               []func(*gorm.DB) *gorm.DB
}

type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	CreateItems(ctx context.Context, items []model.RequestItem) error
	DeleteItems(ctx context.Context, requestID uuid.UUID) error
	GetByID(ctx context.Context, id string) (*model.Request, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.Request, error)
	GetByCode(ctx context.Context, code string) (*model.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]model.Request, int64, error)
	Update(ctx context.Context, request *model.Request) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	NextCodeSequence(ctx context.Context, prefix string) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) error {
	return GetDB(ctx, r.db).Create(request).Error
}

func (r *requestRepository) CreateItems(ctx context.Context, items []model.RequestItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *requestRepository) DeleteItems(ctx context.Context, requestID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("request_id = ?", requestID).Delete(&model.RequestItem{}).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*model.Request, error) {
	var request model.Request
	err := GetDB(ctx, r.db).
		Preload("User").
		Preload("User.Department").
		Preload("Department").
		Preload("RequestItems").
		Preload("ApprovalLogs").
		Preload("ApprovalLogs.Approver").
		Preload("ApprovalLogs.Approver.User").
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetByIDForUpdate loads a request with a row lock; must run inside a
// transaction. Concurrent workflow actions on the same request serialize on
// this lock.
func (r *requestRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.Request, error) {
	var request model.Request
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) GetByCode(ctx context.Context, code string) (*model.Request, error) {
	var request model.Request
	err := GetDB(ctx, r.db).
		Preload("User").
		First(&request, "request_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.Request, int64, error) {
	base := GetDB(ctx, r.db).Model(&model.Request{}).Scopes(filter.Scopes...)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		base = base.Joins("LEFT JOIN users ON users.id = requests.user_id").
			Where("requests.request_code ILIKE ? OR requests.description ILIKE ? OR users.name ILIKE ?", like, like, like)
	}
	if filter.DepartmentID != "" {
		base = base.Where("requests.department_id = ?", filter.DepartmentID)
	}
	if filter.UserID != "" {
		base = base.Where("requests.user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		base = base.Where("requests.status = ?", filter.Status)
	}
	if filter.UrgencyLevel != "" {
		base = base.Where("requests.urgency_level = ?", filter.UrgencyLevel)
	}
	if filter.CurrentApprovalLevel > 0 {
		base = base.Where("requests.current_approval_level = ?", filter.CurrentApprovalLevel)
	}
	if filter.StartDate != nil {
		base = base.Where("requests.request_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		base = base.Where("requests.request_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	order := "DESC"
	if filter.SortOrder == "asc" {
		order = "ASC"
	}

	var requests []model.Request
	offset := pagination.Offset(filter.Page, filter.Limit)
	err := base.
		Preload("User").
		Preload("Department").
		Preload("RequestItems").
		Preload("ApprovalLogs").
		Preload("ApprovalLogs.Approver").
		Preload("ApprovalLogs.Approver.User").
		Order("requests." + sortBy + " " + order).
		Offset(offset).
		Limit(filter.Limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) Update(ctx context.Context, request *model.Request) error {
	return GetDB(ctx, r.db).Save(request).Error
}

// UpdateFields updates selected columns only, avoiding cascade writes on
// preloaded associations.
func (r *requestRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return GetDB(ctx, r.db).Model(&model.Request{}).Where("id = ?", id).Updates(fields).Error
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Request{}).Error
}

// NextCodeSequence returns the next daily sequence number for a request code
// prefix. An advisory xact lock keyed on the prefix prevents two concurrent
// creates from drawing the same number; must run inside a transaction.
func (r *requestRepository) NextCodeSequence(ctx context.Context, prefix string) (int64, error) {
	db := GetDB(ctx, r.db)
	if err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix).Error; err != nil {
		return 0, fmt.Errorf("failed to acquire request code lock: %w", err)
	}

	var maxCode sql.NullString
	if err := db.Model(&model.Request{}).
		Select("MAX(request_code)").
		Where("request_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error; err != nil {
		return 0, err
	}
	if !maxCode.Valid {
		return 1, nil
	}

	return nextSequence(prefix, maxCode.String)
}

// nextSequence parses the numeric suffix of the highest code assigned for
// the prefix and returns the following number. Deriving the sequence from
// the max rather than a row count keeps new codes unique after requests are
// deleted.
func nextSequence(prefix, maxCode string) (int64, error) {
	seq, err := strconv.ParseInt(strings.TrimPrefix(maxCode, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed request code %q: %w", maxCode, err)
	}
	return seq + 1, nil
}
