package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/shopfront/internal/domain/entity"
	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.CatalogSource = (*HTTPSource)(nil)

// productPayload producto tal como lo expone la API remota.
type productPayload struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// HTTPSource consulta GET <base>/products?limit=10&page=<n>. Las peticiones concurrentes a la
// misma página se resuelven con una sola llamada.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	group   singleflight.Group
}

// NewHTTPSource construye el cliente; si client es nil se usa uno con transporte instrumentado (otelhttp).
func NewHTTPSource(baseURL string, timeout time.Duration, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: timeout,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, page int) ([]entity.Product, error) {
	key := strconv.Itoa(page)
	// La llamada compartida no depende de la cancelación de quien llegó primero.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.fetch(shared, page)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		products := res.Val.([]entity.Product)
		return append([]entity.Product(nil), products...), nil
	}
}

func (s *HTTPSource) fetch(ctx context.Context, page int) ([]entity.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("limit", strconv.Itoa(entity.PageSize))
	q.Set("page", strconv.Itoa(page))
	endpoint := s.baseURL + "/products?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decodificar productos: %w", err)
	}
	out := make([]entity.Product, 0, len(payload))
	for _, p := range payload {
		out = append(out, entity.Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Image:       p.Image,
			Description: p.Description,
			Category:    p.Category,
		})
	}
	return out, nil
}
