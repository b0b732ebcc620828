// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package uitest

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
)

func TestWaitForConsole(t *testing.T) {
	ctx := testcontext.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ctx.Check(listener.Close)

	require.NoError(t, waitForConsole(ctx, "http://"+listener.Addr().String()+"/login", time.Second))

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := closed.Addr().String()
	require.NoError(t, closed.Close())

	require.Error(t, waitForConsole(ctx, "http://"+address, 200*time.Millisecond))
}
