package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var narrativeJSON = json.RawMessage(`{"headline":"Strong agreement","findings":[],"recommendations":[]}`)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: narrativeJSON}},
			wantCalls: 1,
		},
		{
			name:      "transient then success",
			responses: []MockResponse{unavailable(), {Content: narrativeJSON}},
			wantCalls: 2,
		},
		{
			name:      "all attempts fail",
			responses: []MockResponse{unavailable(), unavailable(), unavailable(), {Content: narrativeJSON}},
			wantCalls: 3,
			wantErr:   true,
		},
		{
			name: "rate limit honors retry-after",
			responses: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				{Content: narrativeJSON},
			},
			wantCalls: 2,
		},
		{
			name: "truncated narrative is not retried",
			responses: []MockResponse{
				{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"headline":"Strong agr`)}},
				{Content: narrativeJSON},
			},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name: "schema violation retried once",
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Content: json.RawMessage(`{}`), Err: errors.New("missing headline")}},
				{Err: &ErrInvalidResponse{Content: json.RawMessage(`{}`), Err: errors.New("missing headline")}},
				{Content: narrativeJSON},
			},
			wantCalls: 2,
			wantErr:   true,
		},
		{
			name:      "missing provider is not retried",
			responses: []MockResponse{{Err: ErrNoProvider}, {Content: narrativeJSON}},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:      "deadline is not retried",
			responses: []MockResponse{{Err: context.DeadlineExceeded}, {Content: narrativeJSON}},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig())

			resp, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(resp.Content) != string(narrativeJSON) {
				t.Fatalf("unexpected content: %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, mock.CallCount())
			}
		})
	}
}

func TestRetry_MaxTokensKeepsPartialContent(t *testing.T) {
	partial := json.RawMessage(`{"headline":"Moderate agreement","findings":["Average model`)
	p := WithRetry(NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: partial}}), retryConfig())

	_, err := p.Generate(context.Background(), Request{MaxTokens: 16})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
	if string(maxTok.Content) != string(partial) {
		t.Fatalf("partial content lost: %s", maxTok.Content)
	}
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	cfg := retryConfig()
	cfg.MaxAttempts = 0
	mock := NewMockProvider(unavailable(), MockResponse{Content: narrativeJSON})

	if _, err := WithRetry(mock, cfg).Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_CancelledDuringBackoff(t *testing.T) {
	cfg := retryConfig()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	mock := NewMockProvider(unavailable(), MockResponse{Content: narrativeJSON})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

// purposeRecorder records the purpose label each request carried.
type purposeRecorder struct {
	*MockProvider
	purposes []string
}

func (p *purposeRecorder) Generate(ctx context.Context, req Request) (*Response, error) {
	p.purposes = append(p.purposes, PurposeFrom(ctx))
	return p.MockProvider.Generate(ctx, req)
}

func TestRetry_KeepsPurposeAcrossAttempts(t *testing.T) {
	inner := &purposeRecorder{MockProvider: NewMockProvider(unavailable(), MockResponse{Content: narrativeJSON})}
	p := WithRetry(inner, retryConfig())

	ctx := WithPurpose(context.Background(), PurposeNarrative)
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.purposes) != 2 || inner.purposes[0] != PurposeNarrative || inner.purposes[1] != PurposeNarrative {
		t.Fatalf("unexpected purposes: %v", inner.purposes)
	}
}

func TestRetry_IdentityDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
	if p.Name() != ProviderMock {
		t.Fatalf("expected %q, got %q", ProviderMock, p.Name())
	}
}
