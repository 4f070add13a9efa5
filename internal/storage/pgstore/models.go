package pgstore

import (
	"time"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

type roleModel struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	RoleName string `gorm:"column:role_name;not null"`
}

func (roleModel) TableName() string { return "user_roles" }

type companyModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null"`
	PublicKey string `gorm:"column:public_key;not null;default:''"`
}

func (companyModel) TableName() string { return "companies" }

type userModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Username    string    `gorm:"column:username;not null;uniqueIndex"`
	PublicKey   string    `gorm:"column:public_key;not null"`
	Password    string    `gorm:"column:password;not null"`
	FullName    string    `gorm:"column:full_name;not null;default:''"`
	CompanyID   int64     `gorm:"column:company_id;not null;default:0"`
	Role        int64     `gorm:"column:role;not null;default:3"`
	Phone       string    `gorm:"column:phone;not null;default:''"`
	Lang        string    `gorm:"column:lang;not null;default:''"`
	DateCreated time.Time `gorm:"column:date_created;not null"`
}

func (userModel) TableName() string { return "users" }

// userRow is a user joined with its company and role names.
type userRow struct {
	userModel
	CompanyName string `gorm:"column:company_name"`
	RoleName    string `gorm:"column:role_name"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:          r.ID,
		Username:    r.Username,
		FullName:    r.FullName,
		CompanyID:   r.CompanyID,
		CompanyName: r.CompanyName,
		Role:        domain.Role(r.Role),
		RoleName:    r.RoleName,
		Phone:       r.Phone,
		Lang:        r.Lang,
		CreatedAt:   r.DateCreated,
	}
}

type tokenModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null"`
	Token       string    `gorm:"column:token;not null;uniqueIndex"`
	RemoteIP    string    `gorm:"column:remote_ip;not null"`
	DateCreated time.Time `gorm:"column:date_created;not null"`
}

func (tokenModel) TableName() string { return "tokens" }

func tokenModelFromDomain(t *domain.Token) tokenModel {
	return tokenModel{
		UserID:      t.UserID,
		Token:       t.Value,
		RemoteIP:    t.RemoteIP,
		DateCreated: t.CreatedAt,
	}
}

func (m tokenModel) toDomain() *domain.Token {
	return &domain.Token{
		ID:        m.ID,
		UserID:    m.UserID,
		Value:     m.Token,
		RemoteIP:  m.RemoteIP,
		CreatedAt: m.DateCreated,
	}
}

type customerModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Name             string    `gorm:"column:name;not null"`
	TIN              string    `gorm:"column:tin;not null"`
	ContactName      string    `gorm:"column:contact_name;not null;default:''"`
	Email            string    `gorm:"column:email;not null;default:''"`
	Phone            string    `gorm:"column:phone;not null;default:''"`
	Address          string    `gorm:"column:address;not null;default:''"`
	ParentCustomerID int64     `gorm:"column:parent_customer_id;not null;default:0;index"`
	DateCreated      time.Time `gorm:"column:date_created;not null"`
}

func (customerModel) TableName() string { return "customers" }

func customerModelFromDomain(c *domain.Customer) customerModel {
	return customerModel{
		ID:               c.ID,
		Name:             c.Name,
		TIN:              c.TIN,
		ContactName:      c.ContactName,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		ParentCustomerID: c.ParentCustomerID,
		DateCreated:      c.CreatedAt,
	}
}

type customerRow struct {
	customerModel
	ParentName string `gorm:"column:parent_name"`
}

func (r customerRow) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:               r.ID,
		Name:             r.Name,
		TIN:              r.TIN,
		ContactName:      r.ContactName,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		ParentCustomerID: r.ParentCustomerID,
		ParentName:       r.ParentName,
		CreatedAt:        r.DateCreated,
	}
}

type countryModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Code string `gorm:"column:code;not null;uniqueIndex"`
	Name string `gorm:"column:name;not null"`
}

func (countryModel) TableName() string { return "countries" }

type stateModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	CountryID int64  `gorm:"column:country_id;not null;index"`
	Code      string `gorm:"column:code;not null;default:''"`
	Name      string `gorm:"column:name;not null"`
}

func (stateModel) TableName() string { return "states" }

type phraseModel struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	VarName  string `gorm:"column:var_name;not null;uniqueIndex:language_key"`
	LangCode string `gorm:"column:lang_code;not null;uniqueIndex:language_key"`
	Value    string `gorm:"column:value;not null"`
}

func (phraseModel) TableName() string { return "language" }

func allModels() []any {
	return []any{
		&roleModel{},
		&companyModel{},
		&userModel{},
		&tokenModel{},
		&customerModel{},
		&countryModel{},
		&stateModel{},
		&phraseModel{},
	}
}
