package convert

import (
	"fmt"
	"math"
	"time"

	"github.com/gofrs/uuid/v5"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/service"
)

// Fields reads typed values out of a request Struct. A nil Struct reads as empty.
type Fields struct{ m map[string]*structpb.Value }

// Of wraps a request.
func Of(s *structpb.Struct) Fields { return Fields{m: s.GetFields()} }

func invalid(key, want string) error {
	return fmt.Errorf("%w: %s must be %s", errs.ErrValidation, key, want)
}

func (f Fields) present(key string) (*structpb.Value, bool) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, false
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}
	return v, true
}

// String returns the string at key, or "" when absent.
func (f Fields) String(key string) string {
	v, _ := f.present(key)
	return v.GetStringValue()
}

// OptString returns nil when key is absent or null.
func (f Fields) OptString(key string) *string {
	v, ok := f.present(key)
	if !ok {
		return nil
	}
	s := v.GetStringValue()
	return &s
}

// Float returns the number at key, or 0 when absent.
func (f Fields) Float(key string) (float64, error) {
	v, ok := f.present(key)
	if !ok {
		return 0, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum {
		return 0, invalid(key, "a number")
	}
	return n.NumberValue, nil
}

// OptFloat returns nil when key is absent or null.
func (f Fields) OptFloat(key string) (*float64, error) {
	if _, ok := f.present(key); !ok {
		return nil, nil
	}
	n, err := f.Float(key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Int returns the whole number at key.
func (f Fields) Int(key string) (int, error) {
	n, err := f.Float(key)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, invalid(key, "a whole number")
	}
	return int(n), nil
}

// Bool returns the boolean at key, or false when absent.
func (f Fields) Bool(key string) bool {
	v, _ := f.present(key)
	return v.GetBoolValue()
}

// Strings returns the list of strings at key.
func (f Fields) Strings(key string) ([]string, error) {
	v, ok := f.present(key)
	if !ok {
		return nil, nil
	}
	lv := v.GetListValue()
	if lv == nil {
		return nil, invalid(key, "a list of strings")
	}
	out := make([]string, 0, len(lv.GetValues()))
	for _, item := range lv.GetValues() {
		s, isStr := item.GetKind().(*structpb.Value_StringValue)
		if !isStr {
			return nil, invalid(key, "a list of strings")
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}

// Time parses an RFC 3339 timestamp or a YYYY-MM-DD date. Absent yields the zero time.
func (f Fields) Time(key string) (time.Time, error) {
	s := f.String(key)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(key, "an RFC 3339 time or YYYY-MM-DD date")
}

// OptTime returns nil when key is absent.
func (f Fields) OptTime(key string) (*time.Time, error) {
	t, err := f.Time(key)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// UUID parses a required identifier.
func (f Fields) UUID(key string) (uuid.UUID, error) {
	id, err := uuid.FromString(f.String(key))
	if err != nil {
		return uuid.Nil, invalid(key, "a UUID")
	}
	return id, nil
}

// --- request builders ---

// RegisterInput reads a registration request.
func RegisterInput(s *structpb.Struct) service.RegisterInput {
	f := Of(s)
	return service.RegisterInput{
		OfficialEmail: f.String("official_email"),
		ServiceNumber: f.String("service_number"),
		FullName:      f.String("full_name"),
		Rank:          f.String("rank"),
		Station:       f.String("station"),
		Phone:         f.OptString("phone"),
	}
}

// Credentials reads a login or verify request.
func Credentials(s *structpb.Struct) service.Credentials {
	f := Of(s)
	return service.Credentials{
		OfficialEmail: f.String("official_email"),
		ServiceNumber: f.String("service_number"),
	}
}

// ListingInput reads a create-listing request.
func ListingInput(s *structpb.Struct) (service.ListingInput, error) {
	f := Of(s)
	var (
		in  service.ListingInput
		err error
	)
	in.Title = f.String("title")
	in.City = f.String("city")
	in.State = f.String("state")
	in.Base = f.String("base")
	in.GeoArea = f.OptString("geo_area")
	in.RentCurrency = f.String("rent_currency")
	in.RentCycle = model.RentCycle(f.String("rent_cycle"))
	in.Furnished = f.Bool("furnished")
	in.ExactAddress = f.String("exact_address")
	if in.RentAmount, err = f.Float("rent_amount"); err != nil {
		return in, err
	}
	if in.DepositAmount, err = f.OptFloat("deposit_amount"); err != nil {
		return in, err
	}
	if in.Bedrooms, err = f.Int("bedrooms"); err != nil {
		return in, err
	}
	if in.Bathrooms, err = f.Int("bathrooms"); err != nil {
		return in, err
	}
	if in.Amenities, err = f.Strings("amenities"); err != nil {
		return in, err
	}
	if in.Photos, err = f.Strings("photos"); err != nil {
		return in, err
	}
	if in.AvailableFrom, err = f.Time("available_from"); err != nil {
		return in, err
	}
	if in.NextRentDue, err = f.OptTime("next_rent_due"); err != nil {
		return in, err
	}
	return in, nil
}

// TransferInput reads a create-transfer request.
func TransferInput(s *structpb.Struct) (service.TransferInput, error) {
	f := Of(s)
	var (
		in  service.TransferInput
		err error
	)
	if in.ListingID, err = f.UUID("listing_id"); err != nil {
		return in, err
	}
	if in.ToOfficerID, err = f.UUID("to_officer_id"); err != nil {
		return in, err
	}
	if in.ProposedMoveIn, err = f.Time("proposed_move_in"); err != nil {
		return in, err
	}
	if in.EffectiveDate, err = f.OptTime("effective_date"); err != nil {
		return in, err
	}
	in.ConsentPDFURL = f.OptString("consent_pdf_url")
	return in, nil
}
