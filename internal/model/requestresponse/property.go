package requestresponse

import "time"

// PropertyCreateRequest : тело запроса на создание объекта недвижимости
type PropertyCreateRequest struct {
	Name          string    `json:"name" example:"Vesterbro lejlighed"`
	Address       string    `json:"address" example:"Vesterbrogade 12, 1620 København"`
	PurchasePrice int       `json:"purchase_price" example:"2450000"`
	PurchaseDate  time.Time `json:"purchase_date"`
	SquareMeters  int       `json:"square_meters" example:"74"`
}

// PropertyUpdateRequest : тело запроса на обновление объекта
type PropertyUpdateRequest struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	PurchasePrice int       `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	SquareMeters  int       `json:"square_meters"`
}

// PropertyResponse : элемент списка объектов
type PropertyResponse struct {
	UUID             string   `json:"uuid"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	PurchasePrice    int      `json:"purchase_price"`
	SquareMeters     int      `json:"square_meters"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	TenantCount      int      `json:"tenant_count"`
	TotalMonthlyRent float64  `json:"total_monthly_rent"`
}

// PropertyDetailResponse : объект с арендаторами и их платежами
type PropertyDetailResponse struct {
	UUID          string           `json:"uuid"`
	Name          string           `json:"name"`
	Address       string           `json:"address"`
	PurchasePrice int              `json:"purchase_price"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	SquareMeters  int              `json:"square_meters"`
	Latitude      *float64         `json:"latitude,omitempty"`
	Longitude     *float64         `json:"longitude,omitempty"`
	PhotoURL      string           `json:"photo_url,omitempty"`
	Tenants       []TenantResponse `json:"tenants"`
}

// TenantCreateRequest : тело запроса на заселение арендатора
type TenantCreateRequest struct {
	FirstName   string    `json:"first_name" example:"Mads"`
	LastName    string    `json:"last_name" example:"Jensen"`
	MoveInDate  time.Time `json:"move_in_date"`
	MonthlyRent float64   `json:"monthly_rent" example:"9500"`
}

// TenantUpdateRequest : тело запроса на обновление арендатора
type TenantUpdateRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	MonthlyRent float64 `json:"monthly_rent"`
}

// TenantResponse : арендатор с платежами
type TenantResponse struct {
	UUID         string            `json:"uuid"`
	PropertyUUID string            `json:"property_uuid"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	MoveInDate   time.Time         `json:"move_in_date"`
	MoveOutDate  *time.Time        `json:"move_out_date,omitempty"`
	MonthlyRent  float64           `json:"monthly_rent"`
	Payments     []PaymentResponse `json:"payments"`
}

// PaymentCreateRequest : тело запроса на регистрацию платежа
type PaymentCreateRequest struct {
	Amount      float64   `json:"amount" example:"9500"`
	PaymentDate time.Time `json:"payment_date"`
}

// PaymentResponse : платеж арендатора
type PaymentResponse struct {
	UUID        string    `json:"uuid"`
	TenantUUID  string    `json:"tenant_uuid"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
}

// PhotoUploadResponse : pre-signed URL для загрузки фотографии объекта
type PhotoUploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoKey  string `json:"photo_key"`
}
