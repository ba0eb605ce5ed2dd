package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
)

// Mock implementations for testing

type mockCatalog struct {
	devices   []domain.Device
	retailers []domain.Retailer
	err       error
}

func (m *mockCatalog) ListDevices(ctx context.Context) ([]domain.Device, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.devices, nil
}

func (m *mockCatalog) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.devices {
		if m.devices[i].ID == id {
			d := m.devices[i]
			return &d, nil
		}
	}
	return nil, domain.ErrDeviceNotFound
}

func (m *mockCatalog) ListRetailers(ctx context.Context) ([]domain.Retailer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.retailers, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type mockMessenger struct {
	disabled bool
	sendErr  error

	mu   sync.Mutex
	sent []sentMessage
}

func (m *mockMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return m.sendErr
}

func (m *mockMessenger) Enabled() bool {
	return !m.disabled
}

func (m *mockMessenger) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func price(retailer string, amount int64) domain.PriceObservation {
	return domain.PriceObservation{RetailerID: retailer, Price: amount, URL: "https://" + retailer + ".example/p"}
}

// testCatalog is a small catalog shared by the service tests
func testCatalog() *mockCatalog {
	return &mockCatalog{
		retailers: []domain.Retailer{
			{ID: "technolife", Name: "Technolife", Region: "Tehran"},
			{ID: "digikala", Name: "Digikala", Region: "Nationwide"},
			{ID: "mobit", Name: "Mobit", Region: "Tehran"},
		},
		devices: []domain.Device{
			{
				ID: "galaxy-s24", Name: "Samsung Galaxy S24", Brand: "Samsung", Storage: "256GB", ReleaseYear: 2024,
				Prices: []domain.PriceObservation{price("digikala", 52_000_000), price("technolife", 55_500_000), price("mobit", 53_000_000)},
			},
			{
				ID: "iphone-15", Name: "Apple iPhone 15", Brand: "Apple", Storage: "128GB", ReleaseYear: 2023,
				Prices: []domain.PriceObservation{price("technolife", 71_900_000), price("digikala", 74_200_000)},
			},
			{
				ID: "pixel-8", Name: "Google Pixel 8", Brand: "Google", Storage: "128GB", ReleaseYear: 2023,
				Prices: []domain.PriceObservation{price("mobit", 48_000_000)},
			},
			{
				ID: "galaxy-a55", Name: "Samsung Galaxy A55", Brand: "Samsung", Storage: "128GB", ReleaseYear: 2024,
				Prices: []domain.PriceObservation{price("digikala", 21_000_000), price("mobit", 23_100_000)},
			},
			{
				ID: "discontinued", Name: "Samsung Galaxy Note 20", Brand: "Samsung", Storage: "256GB", ReleaseYear: 2020,
			},
		},
	}
}
