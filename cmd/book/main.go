// book submits one booking through the customer submission flow and prints each step.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"ruralride/internal/bookingclient"
	"ruralride/internal/domain"
	"ruralride/internal/fare"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		server  string
		sub     bookingclient.Submission
		vehicle string
		delay   time.Duration
		list    bool
	)

	flagSet := pflag.NewFlagSet("book", pflag.ContinueOnError)
	flagSet.StringVar(&server, "server", "http://localhost:5000", "booking API base URL")
	flagSet.StringVar(&sub.PickupLocation, "pickup", "", "pickup location")
	flagSet.StringVar(&sub.DropLocation, "drop", "", "drop location")
	flagSet.StringVar(&vehicle, "vehicle", string(domain.VehicleTypeAuto), "vehicle type (bike, auto, car, suv)")
	flagSet.StringVar(&sub.DateTime, "at", time.Now().Add(time.Hour).Format("2006-01-02T15:04"), "pickup date and time")
	flagSet.StringVar(&sub.PaymentMethod, "payment", string(domain.PaymentMethodCash), "payment method (cash, card, upi, wallet)")
	flagSet.StringVarP(&sub.CustomerName, "name", "n", "", "customer name")
	flagSet.StringVarP(&sub.CustomerPhone, "phone", "p", "", "customer phone number")
	flagSet.DurationVar(&delay, "assign-delay", bookingclient.DefaultAssignDelay, "driver assignment delay (0 to skip)")
	flagSet.BoolVar(&list, "list", false, "list stored bookings instead of booking")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	client := bookingclient.NewClient(server, nil)
	ctx := context.Background()

	if list {
		return listBookings(ctx, client)
	}

	flow := bookingclient.NewFlow(client)
	flow.AssignDelay = delay
	flow.OnChange = func(from, to bookingclient.State) {
		fmt.Printf("[%s] %s -> %s\n", time.Now().Format("15:04:05"), from, to)
	}

	estimate, err := flow.SetVehicleType(domain.VehicleType(vehicle))
	if err != nil {
		return err
	}
	if err := flow.Edit(func(s *bookingclient.Submission) {
		s.PickupLocation = sub.PickupLocation
		s.DropLocation = sub.DropLocation
		s.DateTime = sub.DateTime
		s.PaymentMethod = sub.PaymentMethod
		s.CustomerName = sub.CustomerName
		s.CustomerPhone = sub.CustomerPhone
	}); err != nil {
		return err
	}
	fmt.Printf("Estimated fare for %s: %s (%s km)\n", vehicle, fare.Format(estimate), fare.Format(fare.DistanceKm))

	if err := flow.Submit(ctx); err != nil {
		fmt.Printf("Booking failed: %s\n", flow.Message())
		for _, fe := range flow.FieldErrors() {
			fmt.Printf("  %s: %s\n", fe.Field, fe.Message)
		}
		return err
	}

	if flow.State() == bookingclient.StateAssigningDriver {
		fmt.Println("Finding a driver near you...")
	}
	if err := flow.Wait(ctx); err != nil {
		return err
	}

	booking := flow.Booking()
	fmt.Printf("Booking confirmed: %s (fare %s, status %s)\n", booking.ID, booking.EstimatedFare, booking.Status)
	if driver := flow.Driver(); driver != nil {
		fmt.Printf("Driver: %s, %s, %s %s (%s)\n",
			driver.Name, driver.Phone, driver.VehicleColor, driver.VehicleModel, driver.VehicleNumber)
	}
	return nil
}

func listBookings(ctx context.Context, client *bookingclient.Client) error {
	bookings, err := client.ListBookings(ctx)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Println("No bookings yet.")
		return nil
	}
	for _, b := range bookings {
		fmt.Printf("%s  %-11s %-5s %-6s %8s  %s -> %s  (%s, %s)\n",
			b.ID, b.Status, b.VehicleType, b.PaymentMethod, b.EstimatedFare,
			b.PickupLocation, b.DropLocation, b.CustomerName, b.DateTime.Format("2006-01-02 15:04"))
	}
	return nil
}
