package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperterse/covidcol/core/config"
	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	"github.com/hyperterse/covidcol/core/logger"
	"github.com/hyperterse/covidcol/core/observability"
	sharedctx "github.com/hyperterse/covidcol/core/shared/context"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// SocrataConnector reads rows from a SODA resource endpoint such as
// https://www.datos.gov.co/resource/gt2j-8ykr.json.
type SocrataConnector struct {
	endpoint string
	dataset  string
	appToken string
	client   *http.Client
	log      *logger.Logger
}

// sodaError is the JSON envelope SODA returns with non-2xx responses.
type sodaError struct {
	Code      string `json:"code"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// NewSocrataConnector creates a connector for endpoint. A zero timeout
// leaves the client without a deadline; callers should pass one.
func NewSocrataConnector(endpoint, appToken string, timeout time.Duration) *SocrataConnector {
	return &SocrataConnector{
		endpoint: endpoint,
		dataset:  datasetID(endpoint),
		appToken: appToken,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logger.New("connector:socrata"),
	}
}

// NewSocrataConnectorFromConfig builds the connector for the configured dataset.
func NewSocrataConnectorFromConfig(cfg config.Config) *SocrataConnector {
	return NewSocrataConnector(cfg.SourceURL(), cfg.AppToken, cfg.Timeout)
}

// Endpoint returns the resource URL queries are sent to.
func (c *SocrataConnector) Endpoint() string {
	return c.endpoint
}

// Fetch issues one GET with $limit and simple-filter equality parameters.
func (c *SocrataConnector) Fetch(ctx context.Context, query interfaces.SourceQuery) ([]domain.RawRecord, error) {
	if query.Limit <= 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidInput, fmt.Sprintf("invalid row limit %d", query.Limit), nil)
	}

	requestURL := c.endpoint + "?" + encodeQuery(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInternalError, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String(observability.AttrDataset, c.dataset))

	queryID := sharedctx.GetQueryID(ctx)
	t0 := time.Now()
	c.log.Debugf("GET %s query_id=%s", requestURL, queryID)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeInterrupted, "request cancelled", ctx.Err())
		}
		c.log.Debugf("HTTP error query_id=%s: %v", queryID, err)
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "request to "+c.endpoint+" failed", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(resp)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var rows []map[string]any
	if err := decoder.Decode(&rows); err != nil {
		c.log.Debugf("Decode error query_id=%s: %v", queryID, err)
		return nil, apperrors.WrapError(apperrors.ErrCodeDecodeFailed, "malformed response body", err)
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRawRecord(row))
	}

	c.log.Debugf("Received %d row(s) query_id=%s duration_ms=%d", len(records), queryID, time.Since(t0).Milliseconds())
	return records, nil
}

// Close releases idle connections
func (c *SocrataConnector) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *SocrataConnector) remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := resp.Status
	var envelope sodaError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	c.log.Debugf("Remote error status=%d message=%q", resp.StatusCode, message)
	return apperrors.NewRemoteError(resp.StatusCode, message)
}

// datasetID extracts "gt2j-8ykr" from .../resource/gt2j-8ykr.json.
func datasetID(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(path.Base(u.Path), ".json")
}

// encodeQuery renders $limit plus equality predicates. url.Values.Encode
// sorts keys, which keeps request URLs stable for logs and tests.
func encodeQuery(query interfaces.SourceQuery) string {
	params := url.Values{}
	params.Set("$limit", strconv.Itoa(query.Limit))
	for field, value := range query.Equals {
		params.Set(field, value)
	}
	return params.Encode()
}

// toRawRecord flattens a decoded JSON object into string values. Nested
// objects such as geo points keep their JSON text.
func toRawRecord(row map[string]any) domain.RawRecord {
	record := make(domain.RawRecord, len(row))
	for key, value := range row {
		record[key] = stringify(value)
	}
	return record
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
