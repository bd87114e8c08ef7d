package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ndelorme/trellis/internal/domain/entity"
	"github.com/ndelorme/trellis/internal/domain/repository"
	"github.com/ndelorme/trellis/pkg/helpers"
)

// AccountService owns identity: registration, login, profile reads and
// writes, photo upload, and the public user search.
type AccountService struct {
	Users        repository.UserRepository
	JWT          *helpers.JWTManager
	GCS          *storage.Client
	GCSBucket    string
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	SearchLimit  int
}

func NewAccountService(users repository.UserRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, searchLimit int) *AccountService {
	if searchLimit <= 0 {
		searchLimit = 50
	}
	return &AccountService{
		Users:        users,
		JWT:          jwt,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		SearchLimit:  searchLimit,
	}
}

type RegisterInput struct {
	UserName     string
	Password     string
	Email        string
	FirstName    string
	LastName     string
	Gender       string
	Age          int
	Address      string
	Presentation string
}

// Register creates a new account. The password is hashed here, before the
// store is touched; the store never sees plain text.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.UserName == "" || in.Password == "" || in.Email == "" ||
		in.FirstName == "" || in.LastName == "" || in.Age <= 0 {
		return nil, ErrInvalidInput
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		UserName:     in.UserName,
		PasswordHash: hash,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       in.Gender,
		Age:          in.Age,
		Address:      in.Address,
		Presentation: in.Presentation,
		Role:         entity.RoleUser,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrUserNameTaken
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// Login authenticates by user name and issues a session token. An unknown
// name and a bad password fail differently on purpose (404 vs 401).
func (s *AccountService) Login(ctx context.Context, userName, password string) (*entity.User, string, time.Time, error) {
	if userName == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidInput
	}
	u, err := s.Users.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrUserNotFound
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Generate(u.ID, u.UserName)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Email        string
	FirstName    string
	LastName     string
	Gender       string
	Age          int
	Address      string
	Presentation string
}

// UpdateProfile applies the mutable profile fields only; user name and
// password cannot change through this path.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Age <= 0 {
		return nil, ErrInvalidInput
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Gender = in.Gender
	u.Age = in.Age
	u.Address = in.Address
	u.Presentation = in.Presentation

	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadPhoto stores a profile photo in GCS and records its public URL.
func (s *AccountService) UploadPhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", u.ID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdatePhoto(ctx, u.ID, url); err != nil {
		return "", err
	}
	u.Photo = url
	_ = s.indexUser(ctx, u)
	return url, nil
}

// Search is a case-insensitive substring match over user names, returning
// id and name only. Elasticsearch serves it when configured; otherwise the
// store scans directly. An empty query is rejected, not treated as match-all.
func (s *AccountService) Search(ctx context.Context, query string) ([]entity.UserRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	if s.ES != nil && s.ESUsersIndex != "" {
		refs, err := s.searchES(ctx, query)
		if err == nil {
			return refs, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to store")
		}
	}
	return s.Users.SearchByName(ctx, query, s.SearchLimit)
}

func (s *AccountService) searchES(ctx context.Context, query string) ([]entity.UserRef, error) {
	// Wildcard and sort both target the keyword subfield: the dynamic
	// mapping types user_name as text, which rejects sorting and matches
	// analyzed terms instead of the whole name.
	body := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"user_name.keyword": map[string]any{
					"value":            "*" + escapeESWildcard(query) + "*",
					"case_insensitive": true,
				},
			},
		},
		"size": s.SearchLimit,
		"sort": []any{map[string]any{"user_name.keyword": "asc"}},
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"`
				Source struct {
					UserName string `json:"user_name"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	refs := make([]entity.UserRef, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		refs = append(refs, entity.UserRef{ID: h.ID, UserName: h.Source.UserName})
	}
	return refs, nil
}

var esWildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// escapeESWildcard keeps user input literal inside a wildcard pattern.
func escapeESWildcard(s string) string {
	return esWildcardEscaper.Replace(s)
}

// indexUser pushes the searchable projection of a user to Elasticsearch.
// Best effort; the store remains the source of truth.
func (s *AccountService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"user_name":  u.UserName,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}
