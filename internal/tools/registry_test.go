package tools_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-io/mapi-client/internal/tools"
	"github.com/veridian-io/mapi-client/pkg/mapi"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	registry := tools.NewRegistry()

	noop := func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		return nil, nil //nolint:nilnil // test stub
	}

	require.NoError(t, registry.Register(&tools.Tool{Name: "alpha", Handler: noop}))
	require.NoError(t, registry.Register(&tools.Tool{Name: "beta", Handler: noop}))

	t.Run("duplicate name rejected", func(t *testing.T) {
		t.Parallel()

		err := registry.Register(&tools.Tool{Name: "alpha", Handler: noop})
		require.ErrorIs(t, err, tools.ErrToolAlreadyRegistered)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		t.Parallel()

		err := registry.Register(&tools.Tool{Handler: noop})
		require.ErrorIs(t, err, tools.ErrToolNameRequired)
	})

	t.Run("nil handler rejected", func(t *testing.T) {
		t.Parallel()

		err := registry.Register(&tools.Tool{Name: "gamma"})
		require.ErrorIs(t, err, tools.ErrToolHandlerRequired)
	})

	t.Run("registration order preserved", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"alpha", "beta"}, registry.Names())
	})
}

func TestRegistry_Execute(t *testing.T) {
	t.Parallel()

	registry := tools.NewRegistry()

	require.NoError(t, registry.Register(&tools.Tool{
		Name: "echo",
		Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
			return map[string]string{"echo": string(args)}, nil
		},
	}))
	require.NoError(t, registry.Register(&tools.Tool{
		Name: "fail",
		Handler: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
			return nil, &mapi.APIError{
				Kind:       mapi.ErrorKindRateLimit,
				Status:     429,
				Message:    "Rate limited: slow down",
				RetryAfter: 30 * time.Second,
			}
		},
	}))

	t.Run("success returns tool output", func(t *testing.T) {
		t.Parallel()

		result := registry.Execute(context.Background(), "echo", json.RawMessage(`{"k":"v"}`))
		assert.JSONEq(t, `{"echo":"{\"k\":\"v\"}"}`, string(result))
	})

	t.Run("failure renders envelope", func(t *testing.T) {
		t.Parallel()

		result := registry.Execute(context.Background(), "fail", nil)

		var envelope struct {
			Error tools.ToolFailure `json:"error"`
		}

		require.NoError(t, json.Unmarshal(result, &envelope))
		assert.Equal(t, "rate_limit", envelope.Error.Kind)
		assert.Equal(t, 429, envelope.Error.Status)
		assert.Equal(t, 30, envelope.Error.RetryAfter)
		assert.Contains(t, envelope.Error.Message, "slow down")
	})

	t.Run("unknown tool renders not found", func(t *testing.T) {
		t.Parallel()

		result := registry.Execute(context.Background(), "nope", nil)

		var envelope struct {
			Error tools.ToolFailure `json:"error"`
		}

		require.NoError(t, json.Unmarshal(result, &envelope))
		assert.Equal(t, "not_found", envelope.Error.Kind)
		assert.Contains(t, envelope.Error.Message, "nope")
	})
}
