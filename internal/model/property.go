package model

import "time"

type Property struct {
	UUID          string     `db:"uuid" json:"uuid"`
	Name          string     `db:"name" json:"name"`
	Address       string     `db:"address" json:"address"`
	PurchasePrice int        `db:"purchase_price" json:"purchase_price"`
	PurchaseDate  time.Time  `db:"purchase_date" json:"purchase_date"`
	SquareMeters  int        `db:"square_meters" json:"square_meters"`
	Latitude      *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude     *float64   `db:"longitude" json:"longitude,omitempty"`
	// PhotoKey сериализуется в кэш вместе с остальной записью,
	// наружу он не выходит: API отдаёт только presigned URL через DTO
	PhotoKey      *string    `db:"photo_key" json:"photo_key,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	Tenants       []Tenant   `db:"-" json:"tenants,omitempty"`
}

type Tenant struct {
	UUID         string     `db:"uuid" json:"uuid"`
	PropertyUUID string     `db:"property_uuid" json:"property_uuid"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	MoveInDate   time.Time  `db:"move_in_date" json:"move_in_date"`
	MoveOutDate  *time.Time `db:"move_out_date" json:"move_out_date,omitempty"`
	MonthlyRent  float64    `db:"monthly_rent" json:"monthly_rent"`
	Payments     []Payment  `db:"-" json:"payments,omitempty"`
}

// Coordinates : результат геокодирования адреса
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Payment struct {
	UUID        string    `db:"uuid" json:"uuid"`
	TenantUUID  string    `db:"tenant_uuid" json:"tenant_uuid"`
	Amount      float64   `db:"amount" json:"amount"`
	PaymentDate time.Time `db:"payment_date" json:"payment_date"`
}
