package impl

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"budget/internal/audit"
	"budget/internal/domain"
	"budget/internal/dto"
	"budget/internal/observability/metrics"
	"budget/internal/service"
	"budget/internal/store"
)

type AuthServiceImpl struct {
	unitOfWork
	PasswordService service.PasswordService
	TService        service.TokenService
}

func NewAuthServiceImpl(st *store.Store, tracker *audit.Tracker, passwordService service.PasswordService, tokenService service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		unitOfWork:      newUnitOfWork(st, tracker),
		PasswordService: passwordService,
		TService:        tokenService,
	}
}

// SignUp creates a user and its password credential. It runs under an audit
// call without a user, so the change log attributes the new rows to the
// anonymous request that created them.
func (a *AuthServiceImpl) SignUp(ctx context.Context, callID domain.AuditCallID, r dto.SignUpRequest) (_ *dto.SignUpResponse, err error) {
	result := "success"
	defer func() {
		if err != nil {
			result = "failure"
		}
		metrics.SignupsTotal.WithLabelValues(result).Inc()
	}()

	email := strings.ToLower(strings.TrimSpace(r.Email))
	if email == "" {
		return nil, ErrEmptyEmail
	}
	name, err := cleanName(r.Name)
	if err != nil {
		return nil, err
	}
	// Hash outside the transaction.
	hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	var out dto.SignUpResponse
	err = a.run(ctx, callID, func(tx *store.Store, _ *domain.User) (audit.MutationSet, error) {
		u := &domain.User{Email: email, Name: name}
		if err := tx.Users().Create(ctx, u); err != nil {
			return audit.MutationSet{}, err
		}
		cred := &domain.PasswordCredential{
			UserID:      u.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
		}
		if err := tx.Credentials().CreatePassword(ctx, cred); err != nil {
			return audit.MutationSet{}, err
		}
		out = dto.SignUpResponse{UserID: u.ID.String(), Email: u.Email}
		return audit.MutationSet{Created: []any{u, cred}}, nil
	})
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user signed up", "user_id", out.UserID, "audit_call_id", callID)
	return &out, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, callID domain.AuditCallID, r dto.LoginRequest) (_ *dto.TokenResponse, err error) {
	result := "success"
	defer func() {
		if err != nil {
			result = "failure"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var user *domain.User
	err = a.run(ctx, callID, func(tx *store.Store, _ *domain.User) (audit.MutationSet, error) {
		u, err := tx.Users().GetByEmail(ctx, r.Email)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return audit.MutationSet{}, domain.ErrInvalidCredentials // don't leak which field failed
			}
			return audit.MutationSet{}, err
		}
		cred, err := tx.Credentials().GetPasswordByUserID(ctx, u.ID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return audit.MutationSet{}, domain.ErrInvalidCredentials
			}
			return audit.MutationSet{}, err
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return audit.MutationSet{}, domain.ErrInvalidCredentials
		}
		user = u
		if !rehashNeeded {
			return audit.MutationSet{}, nil
		}

		// Transparent policy upgrade. Only algo and version reach the change log.
		before, err := a.tracker.Snapshot(cred)
		if err != nil {
			return audit.MutationSet{}, err
		}
		hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return audit.MutationSet{}, err
		}
		cred.Algo, cred.Hash, cred.Salt, cred.ParamsJSON, cred.PasswordVer = algo, hash, salt, paramsJSON, ver
		if err := tx.Credentials().UpdatePassword(ctx, cred); err != nil {
			return audit.MutationSet{}, err
		}
		return audit.MutationSet{Updated: []audit.Update{{Before: before, After: cred}}}, nil
	})
	if err != nil {
		return nil, err
	}
	return a.TService.Issue(user)
}

// DeleteAccount soft-deletes the acting user and drops their household
// memberships. The user row is stamped only after tracking, since the
// tracker requires a live acting user.
func (a *AuthServiceImpl) DeleteAccount(ctx context.Context, callID domain.AuditCallID) error {
	return a.runStaged(ctx, callID, func(tx *store.Store, actor *domain.User) (audit.MutationSet, afterTrackFunc, error) {
		var set audit.MutationSet
		if actor == nil {
			return set, nil, domain.ErrUnauthenticated
		}

		members, err := tx.Members().ListByUser(ctx, actor.ID)
		if err != nil {
			return set, nil, err
		}
		for i := range members {
			m := &members[i]
			if err := tx.Members().Delete(ctx, m); err != nil {
				return set, nil, err
			}
			set.Deleted = append(set.Deleted, m)
		}

		before, err := a.tracker.Snapshot(actor)
		if err != nil {
			return set, nil, err
		}
		deletedAt := store.DeletedAt(a.now())
		actor.DeletedAt = deletedAt
		set.Updated = append(set.Updated, audit.Update{Before: before, After: actor})

		return set, func() error {
			return tx.Users().SoftDelete(ctx, actor, deletedAt.Time)
		}, nil
	})
}
