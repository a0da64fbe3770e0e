package models

// Billing-framework collaborators. Orders and products are owned by the
// surrounding billing system and consumed read-only here.

type Order struct {
	ID        int64 `json:"id"`
	ClientID  int64 `json:"clientId"`
	ProductID int64 `json:"productId"`
}

// Product carries the registrar-specific settings collected by the billing
// admin UI as a flat key/value config bag.
type Product struct {
	ID     int64             `json:"id"`
	Config map[string]string `json:"config"`
}

// Client is the billing system's client profile, read from the shared
// billing database for contact resolution.
type Client struct {
	ID        int64  `gorm:"column:id;primaryKey" json:"id"`
	FirstName string `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"column:last_name;type:varchar(100)" json:"lastName"`
	Address1  string `gorm:"column:address_1;type:varchar(255)" json:"address1"`
	City      string `gorm:"column:city;type:varchar(100)" json:"city"`
	State     string `gorm:"column:state;type:varchar(100)" json:"state"`
	Postcode  string `gorm:"column:postcode;type:varchar(20)" json:"postcode"`
	Country   string `gorm:"column:country;type:varchar(2)" json:"country"`
	Email     string `gorm:"column:email;type:varchar(255)" json:"email"`
	Phone     string `gorm:"column:phone;type:varchar(30)" json:"phone"`
}

func (Client) TableName() string {
	return "clients"
}
