// internal/infrastructure/api/awesome_api_integration_test.go
package api

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwesomeAPIIntegration(t *testing.T) {
	// This test makes real API calls
	if testing.Short() || os.Getenv("QUOTE_API_INTEGRATION") == "" {
		t.Skip("Skipping pricing service integration test; set QUOTE_API_INTEGRATION=1 to run")
	}

	client := NewAwesomeAPIClient(ClientConfig{Location: time.UTC}, &http.Client{Timeout: 15 * time.Second}, logger.Discard(), nil)
	ctx := context.Background()

	latest := client.FetchLatest(ctx, []string{"USD-BRL", "EUR-BRL"})
	require.NotEmpty(t, latest)

	end := time.Now().UTC().AddDate(0, 0, -7)
	start := end.AddDate(0, 0, -7)

	for _, currency := range []string{"USD", "EUR"} {
		t.Run(currency, func(t *testing.T) {
			points, err := client.FetchRange(ctx, currency, start, end)
			require.NoError(t, err)

			for _, p := range points {
				assert.True(t, p.Complete())
				assert.True(t, p.Bid.Decimal.IsPositive())
			}
			t.Logf("Got %d quotes for %s", len(points), currency)
		})
	}
}
