package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentTransfers fires opposite-direction transfers between two
// funded wallets from many goroutines. The pair locking must neither
// deadlock nor lose updates: total funds are conserved and no balance
// goes negative.
func TestConcurrentTransfers(t *testing.T) {
	app := newTestApp(t, appOptions{})
	defer app.close()

	// Fund both wallets: gross 200000 settles to net 190000 each.
	for _, account := range []string{"acc-a", "acc-b"} {
		status, _ := app.post(t, "/api/v1/fintech/wallets/"+account+"/settlements",
			fmt.Sprintf(`{"gross_amount":200000,"currency":"BRL","professional_id":"%s"}`, account))
		require.Equal(t, 200, status)
	}
	initial := decimal.NewFromInt(190000)
	total := initial.Add(initial)

	concurrency := 50
	var wg sync.WaitGroup
	var failures atomic.Int64

	transfer := func(from, to string, amount int) {
		defer wg.Done()
		body := fmt.Sprintf(`{"to_account_id":"%s","amount":%d,"currency":"BRL"}`, to, amount)
		resp, err := http.Post(app.server.URL+"/api/v1/fintech/wallets/"+from+"/transfer",
			"application/json", bytes.NewBufferString(body))
		if err != nil || resp.StatusCode != 200 {
			failures.Add(1)
		}
		if resp != nil {
			resp.Body.Close()
		}
	}

	for i := 0; i < concurrency; i++ {
		wg.Add(2)
		go transfer("acc-a", "acc-b", 100)
		go transfer("acc-b", "acc-a", 70)
	}
	wg.Wait()

	require.Zero(t, failures.Load(), "all transfers should succeed against ample balances")

	balanceA := availableBRL(t, app, "acc-a")
	balanceB := availableBRL(t, app, "acc-b")

	// a: -50*100 +50*70 = -1500; b: +1500
	assert.True(t, balanceA.Equal(initial.Sub(decimal.NewFromInt(1500))),
		"acc-a balance: %s", balanceA)
	assert.True(t, balanceB.Equal(initial.Add(decimal.NewFromInt(1500))),
		"acc-b balance: %s", balanceB)
	assert.True(t, balanceA.Add(balanceB).Equal(total), "funds must be conserved")
}

// TestConcurrentTransfersCannotOverdraw requests more than the sender
// holds across concurrent transfers. Some must fail with insufficient
// balance, and the sender can never go negative.
func TestConcurrentTransfersCannotOverdraw(t *testing.T) {
	app := newTestApp(t, appOptions{})
	defer app.close()

	// net 950 available
	status, _ := app.post(t, "/api/v1/fintech/wallets/src/settlements",
		`{"gross_amount":1000,"currency":"BRL","professional_id":"src"}`)
	require.Equal(t, 200, status)

	concurrency := 20
	amount := decimal.NewFromInt(100) // 20 * 100 = 2000 > 950

	var wg sync.WaitGroup
	var successes, rejections, unexpected atomic.Int64
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := `{"to_account_id":"dst","amount":100,"currency":"BRL"}`
			resp, err := http.Post(app.server.URL+"/api/v1/fintech/wallets/src/transfer",
				"application/json", bytes.NewBufferString(body))
			if err != nil {
				unexpected.Add(1)
				return
			}
			resp.Body.Close()
			switch resp.StatusCode {
			case 200:
				successes.Add(1)
			case 422:
				rejections.Add(1)
			default:
				unexpected.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, unexpected.Load())
	assert.EqualValues(t, concurrency-9, rejections.Load())

	// 950 / 100 = at most 9 transfers can clear.
	assert.EqualValues(t, 9, successes.Load())

	src := availableBRL(t, app, "src")
	dst := availableBRL(t, app, "dst")
	assert.False(t, src.IsNegative(), "sender overdrawn: %s", src)
	assert.True(t, src.Equal(decimal.NewFromInt(50)))
	assert.True(t, dst.Equal(amount.Mul(decimal.NewFromInt(successes.Load()))))
}

// TestConcurrentPayouts races payout requests against a single wallet.
// The check-then-debit must be atomic, so successful payouts never exceed
// the available balance.
func TestConcurrentPayouts(t *testing.T) {
	app := newTestApp(t, appOptions{})
	defer app.close()

	status, _ := app.post(t, "/api/v1/fintech/wallets/pro/settlements",
		`{"gross_amount":1000,"currency":"BRL","professional_id":"pro"}`)
	require.Equal(t, 200, status)

	concurrency := 15
	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(app.server.URL+"/api/v1/fintech/wallets/pro/payout",
				"application/json", bytes.NewBufferString(`{"amount":100}`))
			if err != nil {
				return
			}
			resp.Body.Close()
			if resp.StatusCode == 200 {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 9, successes.Load())

	var wallet struct {
		Balances map[string]struct {
			Available decimal.Decimal `json:"available"`
			Pending   decimal.Decimal `json:"pending"`
		} `json:"balances"`
	}
	_, envelope := app.get(t, "/api/v1/fintech/wallets/pro")
	decodeData(t, envelope, &wallet)
	assert.True(t, wallet.Balances["BRL"].Available.Equal(decimal.NewFromInt(50)))
	assert.True(t, wallet.Balances["BRL"].Pending.Equal(decimal.NewFromInt(900)))
}

// TestConcurrentDepositsAccumulate checks that concurrent deposits to one
// wallet are all applied: pending balance equals the sum and the ledger
// holds one entry per deposit.
func TestConcurrentDepositsAccumulate(t *testing.T) {
	app := newTestApp(t, appOptions{})
	defer app.close()

	concurrency := 40
	var wg sync.WaitGroup
	var failures atomic.Int64
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(app.server.URL+"/api/v1/fintech/wallets/dep/deposit/pix",
				"application/json", bytes.NewBufferString(`{"amount":25}`))
			if err != nil || resp.StatusCode != 201 {
				failures.Add(1)
			}
			if resp != nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()
	require.Zero(t, failures.Load())

	var wallet struct {
		Balances map[string]struct {
			Pending decimal.Decimal `json:"pending"`
		} `json:"balances"`
		Ledger []json.RawMessage `json:"ledger"`
	}
	_, envelope := app.get(t, "/api/v1/fintech/wallets/dep")
	decodeData(t, envelope, &wallet)
	assert.True(t, wallet.Balances["BRL"].Pending.Equal(decimal.NewFromInt(int64(concurrency*25))))
	assert.Len(t, wallet.Ledger, concurrency)
}

func availableBRL(t *testing.T, app *testApp, account string) decimal.Decimal {
	t.Helper()
	var wallet struct {
		Balances map[string]struct {
			Available decimal.Decimal `json:"available"`
		} `json:"balances"`
	}
	_, envelope := app.get(t, "/api/v1/fintech/wallets/"+account)
	decodeData(t, envelope, &wallet)
	return wallet.Balances["BRL"].Available
}
