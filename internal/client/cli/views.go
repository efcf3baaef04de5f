package cli

import (
	"context"
	"fmt"

	"clinicbook/internal/client/nav"
)

// Services renders the treatment catalogue.
func (a *App) Services(ctx context.Context) error {
	a.nav.Go(nav.RouteServices)

	services, err := a.gateway.Services(ctx)
	if err != nil {
		printlnFn("Could not load services:", err.Error())
		return err
	}

	printlnFn("Our services:")
	for _, s := range services {
		printlnFn(fmt.Sprintf("  - %s: %s", s.Name, s.Description))
	}
	return nil
}

// Doctor renders the practitioner profile with patient reviews.
func (a *App) Doctor(ctx context.Context) error {
	a.nav.Go(nav.RouteDoctor)

	printlnFn("Dr. Emily Carter — physiotherapist, clinic and home visits.")

	reviews, err := a.gateway.Reviews(ctx)
	if err != nil {
		printlnFn("Could not load reviews:", err.Error())
		return err
	}
	if len(reviews) == 0 {
		printlnFn("No reviews yet.")
		return nil
	}

	printlnFn("Patient reviews:")
	for _, r := range reviews {
		printlnFn(fmt.Sprintf("  %s %s — %s", stars(r.Rating), r.Author.Name, r.Comment))
	}
	return nil
}

func stars(rating int) string {
	out := ""
	for i := 1; i <= 5; i++ {
		if i <= rating {
			out += "★"
		} else {
			out += "☆"
		}
	}
	return out
}
