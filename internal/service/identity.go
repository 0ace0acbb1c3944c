package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ag3-team/ag3-api/internal/model"
	"github.com/ag3-team/ag3-api/internal/repository"
	"github.com/ag3-team/ag3-api/internal/session"
)

const maxNicknameAttempts = 5

type CredentialIssuer interface {
	Issue(userID string) (session.Credential, error)
}

type NicknameGenerator interface {
	Generate() string
}

type LinkInput struct {
	SNSType  model.SNSType
	SNSID    string
	ImageURL string
}

type LinkResult struct {
	User       model.User
	Credential session.Credential
	IsNew      bool
}

// IdentityService links an SNS identity to a local account, creating the
// account on first login.
type IdentityService struct {
	users           repository.UserRepository
	issuer          CredentialIssuer
	nicknames       NicknameGenerator
	defaultImageURL string
}

func NewIdentityService(users repository.UserRepository, issuer CredentialIssuer, nicknames NicknameGenerator, defaultImageURL string) *IdentityService {
	return &IdentityService{
		users:           users,
		issuer:          issuer,
		nicknames:       nicknames,
		defaultImageURL: defaultImageURL,
	}
}

func (s *IdentityService) LoginOrRegister(ctx context.Context, input LinkInput) (LinkResult, error) {
	if input.SNSType == "" || input.SNSID == "" {
		return LinkResult{}, fmt.Errorf("%w: snsType and snsId are required", ErrValidation)
	}

	user, err := s.users.GetBySNS(ctx, input.SNSType, input.SNSID)
	switch {
	case err == nil:
		return s.result(user, false)
	case !errors.Is(err, repository.ErrNotFound):
		return LinkResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	imageURL := input.ImageURL
	if imageURL == "" {
		imageURL = s.defaultImageURL
	}

	for attempt := 1; attempt <= maxNicknameAttempts; attempt++ {
		created, err := s.users.Create(ctx, model.User{
			SNSType:  input.SNSType,
			SNSID:    input.SNSID,
			Nickname: s.nicknames.Generate(),
			Stacks:   []string{},
			ImageURL: imageURL,
		})
		switch {
		case err == nil:
			slog.InfoContext(ctx, "user registered", "user_id", created.ID, "sns_type", created.SNSType)
			return s.result(created, true)
		case errors.Is(err, repository.ErrDuplicateNickname):
			slog.DebugContext(ctx, "generated nickname taken, retrying", "attempt", attempt)
			continue
		case errors.Is(err, repository.ErrDuplicateSNS):
			// A concurrent login for the same identity won the insert.
			existing, err := s.users.GetBySNS(ctx, input.SNSType, input.SNSID)
			if err != nil {
				return LinkResult{}, fmt.Errorf("failed to look up user after conflict: %w", err)
			}
			return s.result(existing, false)
		default:
			return LinkResult{}, fmt.Errorf("failed to create user: %w", err)
		}
	}
	return LinkResult{}, fmt.Errorf("%w: no free nickname after %d attempts", ErrDuplicateNickname, maxNicknameAttempts)
}

func (s *IdentityService) result(user model.User, isNew bool) (LinkResult, error) {
	cred, err := s.issuer.Issue(user.ID)
	if err != nil {
		return LinkResult{}, fmt.Errorf("failed to issue credential: %w", err)
	}
	return LinkResult{User: user, Credential: cred, IsNew: isNew}, nil
}
