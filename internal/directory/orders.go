package directory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"opsdash/backend/internal/models"
)

// OrderResolver resolves an order id to the summary snapshot attached to
// ORDER_REFERENCE messages. The snapshot is frozen at send time.
type OrderResolver interface {
	ResolveOrder(orderID string) (*models.OrderReference, error)
}

// OrderClient is the HTTP client for the order service.
type OrderClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// ResolveOrder запитує зведення замовлення в сервісу замовлень.
func (c *OrderClient) ResolveOrder(orderID string) (*models.OrderReference, error) {
	resp, err := c.HTTP.Get(fmt.Sprintf("%s/internal/orders/%s/summary", c.BaseURL, orderID))
	if err != nil {
		return nil, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.NewValidationError("orderId", "order not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order service returned %d for order %s", resp.StatusCode, orderID)
	}

	var ref models.OrderReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decoding order summary: %w", err)
	}
	ref.OrderID = orderID
	return &ref, nil
}
