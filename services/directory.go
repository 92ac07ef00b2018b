package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/store"
)

// Mailer delivers verification e-mails. Delivery is mocked in this
// deployment; the logging implementation lives in the email package.
type Mailer interface {
	SendVerification(email, token string)
}

// Directory owns user records: registration, credentials, e-mail
// verification, profile mutations and the view/like/block edges stored on
// the user documents.
type Directory struct {
	users  store.UserStore
	mailer Mailer
}

func NewDirectory(users store.UserStore, mailer Mailer) *Directory {
	return &Directory{users: users, mailer: mailer}
}

type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	Age              int
	Gender           string
	GenderPreference string
}

func (d *Directory) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Age < models.MinAge || in.Age > models.MaxAge {
		return nil, ErrInvalidAge
	}
	if in.Gender != models.GenderMale && in.Gender != models.GenderFemale {
		return nil, ErrInvalidGender
	}
	switch in.GenderPreference {
	case models.PrefMale, models.PrefFemale, models.PrefBoth:
	default:
		return nil, ErrInvalidPreference
	}
	if err := CheckPasswordStrength(in.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := d.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:                primitive.NewObjectID(),
		Email:             email,
		PasswordHash:      string(hash),
		FirstName:         in.FirstName,
		Age:               in.Age,
		Gender:            in.Gender,
		GenderPreference:  in.GenderPreference,
		Photos:            []string{},
		QuestionAnswers:   []models.QuestionAnswer{},
		SearchRadius:      models.DefaultSearchRadius,
		VerificationToken: uuid.NewString(),
		CreatedAt:         now,
		LastActive:        now,
	}
	if err := d.users.Insert(ctx, user); errors.Is(err, store.ErrDuplicate) {
		// Lost the check-then-insert race against a concurrent registration.
		return nil, ErrDuplicateEmail
	} else if err != nil {
		return nil, err
	}

	d.mailer.SendVerification(user.Email, user.VerificationToken)
	return user, nil
}

// Authenticate checks credentials and refreshes last_active. Unknown
// e-mails and wrong passwords are indistinguishable to the caller.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := d.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	_ = d.users.SetLastActive(ctx, user.ID, time.Now().Unix())
	return user, nil
}

func (d *Directory) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := d.users.FindByVerificationToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if err := d.users.SetVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.VerificationToken = ""
	return user, nil
}

func (d *Directory) ResendVerification(ctx context.Context, email string) error {
	user, err := d.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	token := uuid.NewString()
	if err := d.users.SetVerificationToken(ctx, user.ID, token); err != nil {
		return err
	}
	d.mailer.SendVerification(user.Email, token)
	return nil
}

func (d *Directory) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := d.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// RecordView adds viewer to target's profile_views set. Viewing yourself
// is rejected; repeat views are no-ops.
func (d *Directory) RecordView(ctx context.Context, viewer, target primitive.ObjectID) error {
	if viewer == target {
		return ErrSelfTarget
	}
	err := d.users.AddProfileView(ctx, target, viewer)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// AddLike records the directed like edge. The caller must have viewed the
// target's profile first; re-likes are no-ops thanks to set semantics.
func (d *Directory) AddLike(ctx context.Context, from, to primitive.ObjectID) error {
	if from == to {
		return ErrSelfTarget
	}
	target, err := d.users.FindByID(ctx, to)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !target.HasViewedBy(from) {
		return ErrNotViewed
	}
	return d.users.AddLike(ctx, from, to)
}

func (d *Directory) Block(ctx context.Context, blocker, target primitive.ObjectID) error {
	if blocker == target {
		return ErrSelfTarget
	}
	if _, err := d.users.FindByID(ctx, target); errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return d.users.AddBlock(ctx, blocker, target)
}

func (d *Directory) SetLocation(ctx context.Context, id primitive.ObjectID, lat, lon float64, label string) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	err := d.users.SetLocation(ctx, id, lat, lon, label)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (d *Directory) SetSearchRadius(ctx context.Context, id primitive.ObjectID, radius int) error {
	if radius < models.MinSearchRadius || radius > models.MaxSearchRadius {
		return ErrInvalidRadius
	}
	err := d.users.SetSearchRadius(ctx, id, radius)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UpdateProfile applies bio/location/answer changes. The answer batch is
// validated in full before anything is written.
func (d *Directory) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, location *string, answers []models.QuestionAnswer) error {
	if answers != nil {
		if err := ValidateAnswers(answers); err != nil {
			return err
		}
	}
	err := d.users.UpdateProfile(ctx, id, bio, location, answers)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// AddPhoto appends a stored photo URL, capped at MaxPhotos.
func (d *Directory) AddPhoto(ctx context.Context, id primitive.ObjectID, url string) (int, error) {
	user, err := d.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if len(user.Photos) >= models.MaxPhotos {
		return len(user.Photos), ErrTooManyPhotos
	}
	if err := d.users.AddPhoto(ctx, id, url); err != nil {
		return 0, err
	}
	return len(user.Photos) + 1, nil
}

// MatchedProfiles resolves the user's matched set to redacted profiles.
func (d *Directory) MatchedProfiles(ctx context.Context, id primitive.ObjectID) ([]models.User, error) {
	user, err := d.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(user.Matches) == 0 {
		return nil, nil
	}
	return d.users.FindByIDs(ctx, user.Matches)
}
