package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/gymbooking/api"
	"github.com/Domenick1991/gymbooking/config"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
	"github.com/Domenick1991/gymbooking/internal/service/classes"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, classSvc classes.ClassUseCase, bookingSvc bookings.BookingUseCase) error {
	router := gin.Default()

	apiGroup := router.Group("/api")
	api.NewClassHandler(classSvc).Register(apiGroup.Group("/classes"))

	bookingHandler := api.NewBookingHandler(bookingSvc)
	bookingHandler.Register(apiGroup.Group("/bookings"))
	bookingHandler.RegisterAdmin(apiGroup.Group("/admin"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
