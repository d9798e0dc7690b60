// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/kaimono/internal/platform/ctxutil"
)

/*
TestRequestID verifies storage and retrieval of the correlation ID.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	// Empty context yields an empty ID, never a panic.
	assert.Equal(t, "", ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies the logger round trip and the default fallback.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// Without an attached logger we fall back to the process default.
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx = ctxutil.WithLogger(ctx, custom)
	assert.Same(t, custom, ctxutil.GetLogger(ctx))
}
