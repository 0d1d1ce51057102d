//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_WithDB(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	suffix := fmt.Sprintf("%d_%d", time.Now().Unix(), rand.Intn(100000))
	sellerTok, sellerAcct := newUser(t, "seller_"+suffix+"@example.com")
	buyerTok, _ := newUser(t, "buyer_"+suffix+"@example.com")

	productID := "p_" + suffix

	var listed map[string]any
	doJSONAuth(t, http.MethodPost, baseURL+"/products", sellerTok, map[string]any{
		"id":          productID,
		"name":        "Tomatoes",
		"description": "Fresh from the garden",
		"image":       "https://img.example/tomatoes.png",
		"location":    "Lagos",
		"price":       "100",
	}, &listed, 201)
	if listed["owner"] != sellerAcct {
		t.Fatalf("owner=%v want=%v", listed["owner"], sellerAcct)
	}

	var sellerBalance struct {
		Balance uint64 `json:"balance"`
	}
	doJSONAuth(t, http.MethodGet, baseURL+"/ledger/balance", sellerTok, nil, &sellerBalance, 200)
	before := sellerBalance.Balance

	doJSONAuth(t, http.MethodPost, baseURL+"/products/"+productID+"/buy", buyerTok, map[string]any{
		"attached": 100,
	}, nil, 200)

	var got map[string]any
	doJSON(t, http.MethodGet, baseURL+"/products/"+productID, nil, &got, 200)
	if got["sold"] != float64(1) {
		t.Fatalf("sold=%v want=1", got["sold"])
	}

	doJSONAuth(t, http.MethodGet, baseURL+"/ledger/balance", sellerTok, nil, &sellerBalance, 200)
	if sellerBalance.Balance != before+100 {
		t.Fatalf("seller balance=%d want=%d", sellerBalance.Balance, before+100)
	}

	// Wrong payment leaves the counter alone.
	doJSONAuth(t, http.MethodPost, baseURL+"/products/"+productID+"/buy", buyerTok, map[string]any{
		"attached": 50,
	}, nil, 402)

	doJSON(t, http.MethodGet, baseURL+"/products/"+productID, nil, &got, 200)
	if got["sold"] != float64(1) {
		t.Fatalf("sold=%v want=1 after rejected buy", got["sold"])
	}
}

func TestSystem_E2E_SurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	suffix := fmt.Sprintf("r%d_%d", time.Now().Unix(), rand.Intn(100000))
	sellerTok, _ := newUser(t, "seller_"+suffix+"@example.com")

	productID := "p_" + suffix
	doJSONAuth(t, http.MethodPost, baseURL+"/products", sellerTok, map[string]any{
		"id":    productID,
		"name":  "Durable",
		"price": "5",
	}, nil, 201)

	restartMarketContainer(t, ctx)
	waitReady(t, ctx, baseURL+"/readyz")

	var got map[string]any
	doJSON(t, http.MethodGet, baseURL+"/products/"+productID, nil, &got, 200)
	if got["id"] != productID {
		t.Fatalf("listing lost across restart: %v", got)
	}
}

func newUser(t *testing.T, email string) (token, account string) {
	t.Helper()

	var reg struct {
		Account string `json:"account"`
	}
	doJSON(t, http.MethodPost, baseURL+"/auth/register", map[string]any{
		"email":    email,
		"password": "password123!",
	}, &reg, 201)
	if reg.Account == "" {
		t.Fatalf("empty account")
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/auth/login", map[string]any{
		"email":    email,
		"password": "password123!",
	}, &login, 200)
	if login.AccessToken == "" {
		t.Fatalf("empty access_token")
	}

	return login.AccessToken, reg.Account
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()
	doJSONAuth(t, method, url, "", body, out, want)
}

func doJSONAuth(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
