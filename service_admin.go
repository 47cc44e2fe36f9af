package identity

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// GetUserByID returns a principal by id, archived or not.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Principals().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	return user.PublicProfile(), nil
}

// GetUserByEmail returns a principal by exact email match.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.Principals().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}
	return user.PublicProfile(), nil
}

// GetAllUsers lists every non-archived principal.
func (s *Service) GetAllUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.Principals().ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, u.PublicProfile())
	}

	return out, nil
}

// GetParticipants resolves a set of principal ids to their records, used by
// callers that hold membership lists. Unknown ids are skipped rather than
// failing the whole lookup.
func (s *Service) GetParticipants(ctx context.Context, ids []uuid.UUID) ([]*User, error) {
	users, err := s.repo.Principals().ListByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve participants")
	}

	out := make([]*User, 0, len(users))
	for _, u := range users {
		out = append(out, u.PublicProfile())
	}

	return out, nil
}

// CountUsers returns the total principal count, archived included.
func (s *Service) CountUsers(ctx context.Context) (int, error) {
	count, err := s.repo.Principals().Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryInternal, "failed to count users")
	}
	return count, nil
}

// CreateAdminUser registers a principal carrying the admin role. The role is
// resolved by name through the role provider; without one the operation
// refuses rather than creating an unprivileged account that claims to be an
// admin.
func (s *Service) CreateAdminUser(ctx context.Context, msg SignupMessage) (*User, error) {
	if s.roles == nil {
		return nil, errors.New("no role provider configured", errors.CategoryInternal)
	}

	role, err := s.roles.GetRoleByName(ctx, "admin")
	if err != nil || role == nil {
		return nil, ErrRoleNotFound
	}

	created, err := s.Signup(ctx, msg)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Principals().GetByID(ctx, created.ID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to reload user")
	}

	roleID := role.ID
	user.RoleID = &roleID

	updated, err := s.repo.Principals().Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to assign admin role")
	}

	return updated.PublicProfile(), nil
}

// UpdateProfile lets a principal edit their own name, email, and picture.
// Empty fields are left untouched; an email change re-checks uniqueness.
func (s *Service) UpdateProfile(ctx context.Context, msg UpdateProfileMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid profile payload")
	}

	user, err := s.repo.Principals().GetByID(ctx, msg.UserID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if msg.Email != "" && msg.Email != user.Email {
		inUse, err := s.repo.Principals().EmailInUse(ctx, msg.Email, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
		}
		if inUse {
			return nil, ErrEmailInUse
		}
		user.Email = msg.Email
	}

	if msg.Name != "" {
		user.Name = msg.Name
	}

	if msg.ProfilePicture != "" {
		user.ProfilePicture = msg.ProfilePicture
	}

	updated, err := s.repo.Principals().Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update profile")
	}

	return updated.PublicProfile(), nil
}

// SaveAssessment stores the study pace derived from the onboarding
// assessment.
func (s *Service) SaveAssessment(ctx context.Context, userID uuid.UUID, studyPace string) (*User, error) {
	user, err := s.repo.Principals().GetByID(ctx, userID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	user.StudyPace = studyPace

	updated, err := s.repo.Principals().Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to save assessment")
	}

	return updated.PublicProfile(), nil
}

// UpdateUser is the administrative edit. Email uniqueness and role existence
// are re-checked here; trusting the caller on either would let an admin
// request corrupt the invariants the rest of the module relies on.
func (s *Service) UpdateUser(ctx context.Context, msg UpdateUserMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid user payload")
	}

	user, err := s.repo.Principals().GetByID(ctx, msg.UserID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if msg.Email != "" && msg.Email != user.Email {
		inUse, err := s.repo.Principals().EmailInUse(ctx, msg.Email, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email availability")
		}
		if inUse {
			return nil, ErrEmailInUse
		}
		user.Email = msg.Email
	}

	if msg.RoleID != nil {
		if s.roles == nil {
			return nil, ErrRoleNotFound
		}
		role, err := s.roles.GetRoleByID(ctx, *msg.RoleID)
		if err != nil || role == nil {
			return nil, ErrRoleNotFound
		}
		user.RoleID = msg.RoleID
	}

	if msg.Name != "" {
		user.Name = msg.Name
	}

	if msg.StudyPace != "" {
		user.StudyPace = msg.StudyPace
	}

	updated, err := s.repo.Principals().Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	return updated.PublicProfile(), nil
}

// ArchiveUser soft deletes a principal and revokes their refresh token. The
// record stays queryable by id; whether they can still authenticate is the
// archived-login policy on Config.
func (s *Service) ArchiveUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Principals().Archive(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to archive user")
	}

	if err := s.repo.RefreshTokens().DeleteForUser(ctx, id); err != nil {
		s.logger.Warn("failed to revoke refresh token for archived user %s: %v", id, err)
	}

	s.emit(ctx, ActivityEventUserArchived, id, nil)

	return user.PublicProfile(), nil
}
