package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ruralride/internal/domain"
	"ruralride/internal/fare"
	"ruralride/internal/repository"
)

var _ repository.BookingRepository = (*BookingRepository)(nil)

// bookingDocument is the stored shape of a booking.
type bookingDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	PickupLocation string             `bson:"pickupLocation"`
	DropLocation   string             `bson:"dropLocation"`
	VehicleType    string             `bson:"vehicleType"`
	DateTime       time.Time          `bson:"dateTime"`
	PaymentMethod  string             `bson:"paymentMethod"`
	EstimatedFare  float64            `bson:"estimatedFare"`
	Status         string             `bson:"status"`
	CustomerName   string             `bson:"customerName"`
	CustomerPhone  string             `bson:"customerPhone"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (d *bookingDocument) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:             d.ID.Hex(),
		PickupLocation: d.PickupLocation,
		DropLocation:   d.DropLocation,
		VehicleType:    domain.VehicleType(d.VehicleType),
		DateTime:       d.DateTime.UTC(),
		PaymentMethod:  domain.PaymentMethod(d.PaymentMethod),
		EstimatedFare:  fare.Format(d.EstimatedFare),
		Status:         domain.BookingStatus(d.Status),
		CustomerName:   d.CustomerName,
		CustomerPhone:  d.CustomerPhone,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

// BookingRepository is a MongoDB implementation of repository.BookingRepository.
type BookingRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewBookingRepository creates a booking repository on the bookings collection of db.
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		coll: db.Collection(bookingsCollection),
		now:  time.Now,
	}
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, nb *domain.NewBooking) (*domain.Booking, error) {
	amount, err := strconv.ParseFloat(nb.EstimatedFare, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid estimated fare %q: %w", nb.EstimatedFare, err)
	}

	// BSON dates carry millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := &bookingDocument{
		ID:             primitive.NewObjectID(),
		PickupLocation: nb.PickupLocation,
		DropLocation:   nb.DropLocation,
		VehicleType:    string(nb.VehicleType),
		DateTime:       nb.DateTime.UTC().Truncate(time.Millisecond),
		PaymentMethod:  string(nb.PaymentMethod),
		EstimatedFare:  amount,
		Status:         string(domain.BookingStatusPending),
		CustomerName:   nb.CustomerName,
		CustomerPhone:  nb.CustomerPhone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetByID retrieves a booking by ID. Malformed ids are treated as absent.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc bookingDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	bookings := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toDomain())
	}
	return bookings, nil
}

// UpdateStatus overwrites the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"updatedAt": r.now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// DeleteAll removes every booking.
func (r *BookingRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}
