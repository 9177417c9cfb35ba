package order_repo

import (
	"TourPay/internal/domain/order"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "tour_id",
	"customer_first_name", "customer_last_name", "customer_email", "customer_phone",
	"adults", "children", "infants",
	"amount", "currency", "status", "gateway_ref", "order_info", "guest_details",
	"travel_date", "return_date", "created_at", "updated_at",
}

type orderRow struct {
	ID           string
	TourID       string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Adults       int
	Children     int
	Infants      int
	Amount       int64
	Currency     string
	Status       string
	GatewayRef   string
	OrderInfo    string
	GuestDetails []byte
	TravelDate   *time.Time
	ReturnDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (m orderRow) toDomain() (order.Order, error) {
	status, err := order.NewStatus(m.Status)
	if err != nil {
		return order.Order{}, fmt.Errorf("invalid status in database: %w", err)
	}

	var guests json.RawMessage
	if len(m.GuestDetails) > 0 {
		guests = json.RawMessage(m.GuestDetails)
	}

	return order.Order{
		ID:     m.ID,
		TourID: m.TourID,
		Customer: order.Customer{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			Phone:     m.Phone,
		},
		Party:        order.Party{Adults: m.Adults, Children: m.Children, Infants: m.Infants},
		Amount:       m.Amount,
		Currency:     m.Currency,
		Status:       status,
		GatewayRef:   m.GatewayRef,
		OrderInfo:    m.OrderInfo,
		GuestDetails: guests,
		TravelDate:   m.TravelDate,
		ReturnDate:   m.ReturnDate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func orderValues(o order.Order) []any {
	var guests any
	if len(o.GuestDetails) > 0 {
		guests = []byte(o.GuestDetails)
	}
	return []any{
		o.ID, o.TourID,
		o.Customer.FirstName, o.Customer.LastName, o.Customer.Email, o.Customer.Phone,
		o.Party.Adults, o.Party.Children, o.Party.Infants,
		o.Amount, o.Currency, string(o.Status), o.GatewayRef, o.OrderInfo, guests,
		o.TravelDate, o.ReturnDate, o.CreatedAt, o.UpdatedAt,
	}
}

func parseOrderRow(row pgx.Row) (order.Order, error) {
	var m orderRow
	err := row.Scan(
		&m.ID, &m.TourID,
		&m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.Adults, &m.Children, &m.Infants,
		&m.Amount, &m.Currency, &m.Status, &m.GatewayRef, &m.OrderInfo, &m.GuestDetails,
		&m.TravelDate, &m.ReturnDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, err
	}
	return m.toDomain()
}
