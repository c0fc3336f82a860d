package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rookgm/marketplace/internal/models"
	"github.com/rookgm/marketplace/internal/repository/postgres"
)

const vendorColumns = `
	id, user_id, business_name, business_type, email, phone, linked_account_id,
	linked_account_status, kyc_verified, pan, gstin, account_status, commission_percentage,
	bank_account_name, bank_account_number, bank_ifsc, is_active, created_at, verified_at`

const (
	insertVendorQuery = `
						INSERT INTO vendor_accounts (user_id, business_name, business_type, email, phone,
						    account_status, commission_percentage, bank_account_name, bank_account_number, bank_ifsc)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
						RETURNING` + vendorColumns

	selectVendorQuery = `
						SELECT` + vendorColumns + ` FROM vendor_accounts
						WHERE id = $1
`
	selectVendorByUserIDQuery = `
						SELECT` + vendorColumns + ` FROM vendor_accounts
						WHERE user_id = $1
`
	updateVendorQuery = `
						UPDATE vendor_accounts
						SET business_name = $2, business_type = $3, email = $4, phone = $5, linked_account_id = $6,
						    linked_account_status = $7, kyc_verified = $8, pan = $9, gstin = $10, account_status = $11,
						    commission_percentage = $12, bank_account_name = $13, bank_account_number = $14,
						    bank_ifsc = $15, is_active = $16, verified_at = $17
						WHERE id = $1
`
)

// VendorRepository implements VendorRepository interface
type VendorRepository struct {
	db *postgres.DB
}

// NewVendorRepository creates new VendorRepository instance
func NewVendorRepository(db *postgres.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func scanVendor(row pgx.Row) (*models.VendorAccount, error) {
	var v models.VendorAccount
	err := row.Scan(&v.ID, &v.UserID, &v.BusinessName, &v.BusinessType, &v.Email, &v.Phone, &v.LinkedAccountID,
		&v.LinkedAccountStatus, &v.KYCVerified, &v.PAN, &v.GSTIN, &v.AccountStatus, &v.CommissionPercentage,
		&v.BankAccountName, &v.BankAccountNumber, &v.BankIFSC, &v.IsActive, &v.CreatedAt, &v.VerifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateVendor inserts vendor account. A user may own one vendor account.
func (vr *VendorRepository) CreateVendor(ctx context.Context, v *models.VendorAccount) (*models.VendorAccount, error) {
	created, err := scanVendor(vr.db.QueryRow(ctx, insertVendorQuery, v.UserID, v.BusinessName, v.BusinessType, v.Email,
		v.Phone, v.AccountStatus, v.CommissionPercentage, v.BankAccountName, v.BankAccountNumber, v.BankIFSC))
	if err != nil {
		if errCode := vr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}
	return created, nil
}

// GetVendor returns vendor account by id
func (vr *VendorRepository) GetVendor(ctx context.Context, id uint64) (*models.VendorAccount, error) {
	return scanVendor(vr.db.QueryRow(ctx, selectVendorQuery, id))
}

// GetVendorByUserID returns vendor account operated by user
func (vr *VendorRepository) GetVendorByUserID(ctx context.Context, userID uint64) (*models.VendorAccount, error) {
	return scanVendor(vr.db.QueryRow(ctx, selectVendorByUserIDQuery, userID))
}

// UpdateVendor stores vendor account
func (vr *VendorRepository) UpdateVendor(ctx context.Context, v *models.VendorAccount) error {
	cmd, err := vr.db.Exec(ctx, updateVendorQuery, v.ID, v.BusinessName, v.BusinessType, v.Email, v.Phone,
		v.LinkedAccountID, v.LinkedAccountStatus, v.KYCVerified, v.PAN, v.GSTIN, v.AccountStatus,
		v.CommissionPercentage, v.BankAccountName, v.BankAccountNumber, v.BankIFSC, v.IsActive, v.VerifiedAt)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
