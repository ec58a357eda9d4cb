package transport

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ProductRef struct {
	ID uint `json:"id"`
}

type OrderStateRef struct {
	Name string `json:"name"`
}

type OrderItemRequest struct {
	Product  *ProductRef `json:"product"`
	Quantity int         `json:"quantity"`
	Discount *float64    `json:"discount"`
}

type CreateOrderRequest struct {
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	PhoneNumber string             `json:"phoneNumber"`
	OrderState  *OrderStateRef     `json:"orderState"`
	OrderItems  []OrderItemRequest `json:"orderItems"`
}

type PatchOrderRequest struct {
	OrderState *OrderStateRef `json:"orderState"`
}

type CreateOpinionRequest struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

type CategoryRef struct {
	Name string `json:"name"`
}

type ProductRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	PriceUnit   float64     `json:"priceUnit"`
	WeightUnit  float64     `json:"weightUnit"`
	Category    CategoryRef `json:"category"`
}

type PatchProductRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	PriceUnit   *float64     `json:"priceUnit"`
	WeightUnit  *float64     `json:"weightUnit"`
	Category    *CategoryRef `json:"category"`
}
