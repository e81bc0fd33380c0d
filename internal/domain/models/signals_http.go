package models

// Requests for the HTTP API. Defaults are applied by creasty/defaults before validation.

type MarketPathRequest struct {
	Type string `param:"type" validate:"required,oneof=crypto forex commodities"`
	ID   string `param:"id"`
}

type SignalsRequest struct {
	MarketType string `query:"marketType" json:"marketType" default:"crypto" validate:"oneof=crypto forex commodities"`
	TimeFrame  string `query:"timeFrame" json:"timeFrame" validate:"omitempty,oneof=short medium long"`
}

type HistoryRequest struct {
	MarketType string `query:"marketType" json:"marketType" default:"crypto" validate:"oneof=crypto forex commodities"`
	From       string `query:"from" json:"from"`
	To         string `query:"to" json:"to"`
}

type CryptoMarketsRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=250"`
}

type HistoricalSeriesRequest struct {
	ID       string `param:"id" validate:"required"`
	Days     int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=365"`
	Interval string `query:"interval" json:"interval" default:"hourly" validate:"oneof=hourly daily"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CredentialsRequest struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
