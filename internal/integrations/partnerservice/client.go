package partnerservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PartnerService (справочник автомоек и услуг)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PartnerService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCarwash получает автомойку по ID вместе с рабочими часами
func (c *Client) GetCarwash(ctx context.Context, carwashID int64) (*Carwash, error) {
	url := fmt.Sprintf("%s/internal/carwashes/%d", c.baseURL, carwashID)

	var carwash Carwash
	if err := c.getJSON(ctx, url, &carwash, ErrCarwashNotFound); err != nil {
		return nil, err
	}

	return &carwash, nil
}

// GetService получает услугу автомойки по ID
func (c *Client) GetService(ctx context.Context, carwashID, serviceID int64) (*WashService, error) {
	url := fmt.Sprintf("%s/internal/carwashes/%d/services/%d", c.baseURL, carwashID, serviceID)

	var service WashService
	if err := c.getJSON(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return &service, nil
}

// GetServices получает набор услуг автомойки по их ID
// Порядок результата соответствует порядку serviceIDs
func (c *Client) GetServices(ctx context.Context, carwashID int64, serviceIDs []int64) ([]*WashService, error) {
	services := make([]*WashService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		service, err := c.GetService(ctx, carwashID, id)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
// notFoundErr возвращается при статусе 404
func (c *Client) getJSON(ctx context.Context, url string, out interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
