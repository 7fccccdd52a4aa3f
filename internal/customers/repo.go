package customers

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
)

// CustIDPrefix precedes the numeric part of every customer identifier.
const CustIDPrefix = "NS"

// FirstCustIDNumber seeds the sequence when the customers table is empty.
const FirstCustIDNumber = 101

// Repository exposes persistence helpers for customer accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByID(ctx context.Context, custID string) (*models.Customer, error)
	NextCustID(ctx context.Context) (string, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a customers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, custID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("cust_id = ?", custID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// NextCustID allocates the next identifier in the NS sequence. Identifiers
// sort lexicographically only while they share a width, so the highest value
// is resolved by parsing the numeric suffix rather than ordering in SQL.
func (r *repositoryImpl) NextCustID(ctx context.Context) (string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("cust_id LIKE ?", CustIDPrefix+"%").
		Pluck("cust_id", &ids).Error
	if err != nil {
		return "", err
	}

	highest := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, CustIDPrefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	if highest == 0 {
		return CustIDPrefix + strconv.Itoa(FirstCustIDNumber), nil
	}
	return CustIDPrefix + strconv.Itoa(highest+1), nil
}
