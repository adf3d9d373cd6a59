package services

import (
	"context"
	"errors"

	"pinboard-backend/internal/apperr"
	"pinboard-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// StepResult is the outcome of one step of an account deletion
type StepResult struct {
	Step    string `json:"step"`
	Deleted int64  `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// DeleteReport lists what an account deletion removed, in order
type DeleteReport struct {
	UserID string       `json:"user_id"`
	Steps  []StepResult `json:"steps"`
}

// Failed reports whether any step failed
func (r *DeleteReport) Failed() bool {
	for _, step := range r.Steps {
		if step.Error != "" {
			return true
		}
	}
	return false
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context, r repository.Repositories, userID string) (int64, error)
}

const userStep = "user"

var deleteUserSteps = []cascadeStep{
	{"pins", deleteOwnedPins},
	{"saves", deleteSaveRecord},
	{"comments", deleteCommentsByUser},
	{"likes", deleteLikesByUser},
	{"boards", deleteBoardsByUser},
	{"messages", deleteMessagesByUser},
	{"follows", deleteFollowsByUser},
	{userStep, deleteUserRecord},
}

// DeleteUser removes an account and everything it owns after checking the password.
// Each step runs in its own transaction. A failing step is recorded and the remaining steps still run.
// Only a failure to delete the user record itself fails the call.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID, password string) (*DeleteReport, error) {
	if actorID != userID {
		return nil, apperr.Forbidden("you can only delete your own account")
	}

	user, err := s.store.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth("incorrect password")
	}

	affected := []string{userID}
	counterparts, err := followCounterparts(ctx, s.store.Repos(), userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to list follow counterparts")
	}
	affected = append(affected, counterparts...)

	report := &DeleteReport{UserID: userID}
	var userErr error

	for _, step := range deleteUserSteps {
		var deleted int64
		err := s.store.WithTx(ctx, func(r repository.Repositories) error {
			n, err := step.run(ctx, r, userID)
			deleted = n
			return err
		})

		result := StepResult{Step: step.name, Deleted: deleted}
		if err != nil {
			result.Deleted = 0
			result.Error = stepError(err)
			log.Error().Err(err).Str("user_id", userID).Str("step", step.name).Msg("Account deletion step failed")
			if step.name == userStep {
				userErr = err
			}
		}
		report.Steps = append(report.Steps, result)
	}

	invalidateUsers(ctx, s.cache, affected...)

	if userErr != nil {
		return report, apperr.Internal("failed to delete user: %v", userErr)
	}

	log.Info().
		Str("user_id", userID).
		Bool("partial", report.Failed()).
		Interface("steps", report.Steps).
		Msg("User deleted")

	return report, nil
}

// stepError is the failure text a report may carry. Storage errors are only logged.
func stepError(err error) string {
	if apperr.Kind(err) == apperr.ErrInternal {
		return "internal server error"
	}
	return err.Error()
}

func deleteOwnedPins(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	pins, err := r.Pins.ListByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, pin := range pins {
		if err := removePin(ctx, r, pin); err != nil {
			return 0, err
		}
	}
	return int64(len(pins)), nil
}

func deleteSaveRecord(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	return r.Saves.DeleteByUser(ctx, userID)
}

func deleteLikesByUser(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	likes, err := r.Likes.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, like := range likes {
		if err := r.Pins.RemoveLike(ctx, like.PinID, userID); err != nil {
			return 0, err
		}
		deleted, err := r.Likes.Delete(ctx, userID, like.PinID)
		if err != nil {
			return 0, err
		}
		n += deleted
	}
	return n, nil
}

func deleteBoardsByUser(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	boards, err := r.Boards.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, board := range boards {
		if _, err := r.Pins.ClearBoard(ctx, board.ID); err != nil {
			return 0, err
		}
		deleted, err := r.Boards.Delete(ctx, board.ID)
		if err != nil {
			return 0, err
		}
		n += deleted
	}
	return n, nil
}

func deleteMessagesByUser(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	return r.Messages.DeleteByUser(ctx, userID)
}

// followCounterparts lists the users on the other side of the user's follows
func followCounterparts(ctx context.Context, r repository.Repositories, userID string) ([]string, error) {
	follows, err := r.Follows.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		} else {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

// deleteFollowsByUser removes the user's follows and prunes the user from the counterparts' arrays
func deleteFollowsByUser(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	follows, err := r.Follows.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, f := range follows {
		if f.FollowerID == userID {
			err = r.Users.RemoveFollower(ctx, f.FollowingID, userID)
		} else {
			err = r.Users.RemoveFollowing(ctx, f.FollowerID, userID)
		}
		if err != nil {
			return 0, err
		}
	}
	return r.Follows.DeleteByUser(ctx, userID)
}

func deleteUserRecord(ctx context.Context, r repository.Repositories, userID string) (int64, error) {
	n, err := r.Users.Delete(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("user record already gone")
	}
	return n, nil
}
