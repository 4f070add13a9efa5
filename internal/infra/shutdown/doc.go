// Package shutdown runs registered cleanup hooks when the process is
// asked to stop.
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("http", srv.Shutdown)
//	h.OnShutdown("store", func(context.Context) error { return store.Close() })
//	err := h.Wait(ctx) // SIGINT, SIGTERM or ctx cancellation
//
// Hooks run in reverse order of registration under one shared timeout.
package shutdown
