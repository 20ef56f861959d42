package wallet

import (
	"context"

	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/models/userdata"
	"github.com/automate/wallet-linker/repos"
	"github.com/rs/zerolog"
)

type UserStore interface {
	FindUser(ctx context.Context, id int64) (*userdata.User, error)
	FindUserWithWallet(ctx context.Context, id int64) (*userdata.User, error)
	AddUser(ctx context.Context, user userdata.User) (*userdata.User, error)
	LinkWalletToUser(ctx context.Context, walletId, userId int64) error
	ReleaseWallet(ctx context.Context, walletId, keepUserId int64) (int64, error)
	ClearWallet(ctx context.Context, userId int64) error
}

type WalletStore interface {
	FindWalletByAddress(ctx context.Context, address string) (*userdata.Wallet, error)
	InsertWallet(ctx context.Context, address string, locationId *int64) (*userdata.Wallet, error)
}

type LocationStore interface {
	InsertLocation(ctx context.Context, location userdata.Location) (*userdata.Location, error)
	UpdateLocation(ctx context.Context, id int64, location userdata.Location) error
}

// Service links wallet addresses to users. It keeps no per-event state; the event logger
// travels in the context passed to each call.
type Service struct {
	users     UserStore
	wallets   WalletStore
	locations LocationStore
	locker    Locker
}

func NewService(users UserStore, wallets WalletStore, locations LocationStore, locker Locker) *Service {
	if locker == nil {
		locker = NoopLocker{}
	}

	return &Service{
		users:     users,
		wallets:   wallets,
		locations: locations,
		locker:    locker,
	}
}

// GetAddress returns the address linked to userId.
func (s *Service) GetAddress(ctx context.Context, userId int64) (string, error) {
	user, err := s.findUserWithWallet(ctx, userId)
	if err != nil {
		return "", err
	}

	address, err := ValidateAddress(user)
	if err != nil {
		logFailure(ctx, err)
		return "", err
	}

	return address, nil
}

// EnsureUser returns the user behind the event sender, registering it together with a
// location on first contact.
func (s *Service) EnsureUser(ctx context.Context, payload models.EventPayload) (*userdata.User, error) {
	senderId := payload.Sender.Id

	user, err := s.users.FindUser(ctx, senderId)
	if err != nil {
		return nil, fail(ctx, ErrStorage, "Could not check if the user exists.", err)
	}
	if user != nil {
		return user, nil
	}

	location, err := s.locations.InsertLocation(ctx, BuildLocationMetadata(payload).Location())
	if err != nil {
		return nil, fail(ctx, ErrStorage, "Could not create the user location.", err)
	}

	user, err = s.users.AddUser(ctx, userdata.User{Id: senderId, LocationId: &location.Id})
	if err != nil {
		if !repos.IsDuplicate(err) {
			return nil, fail(ctx, ErrStorage, "A new user could not be registered.", err)
		}

		// another event registered the same sender in between
		zerolog.Ctx(ctx).Warn().Int64("user_id", senderId).Int64("location_id", location.Id).Msg("User registered concurrently, reading it back")

		user, err = s.users.FindUser(ctx, senderId)
		if err != nil {
			return nil, fail(ctx, ErrStorage, "Could not check if the user exists.", err)
		}
		if user == nil {
			return nil, fail(ctx, ErrStorage, "A new user could not be registered.", repos.ErrDuplicate)
		}
		return user, nil
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.Id).Msg("Registered new user")
	return user, nil
}

// UpsertWalletAddress links address to the sender of payload. A new wallet is registered
// when the address is unknown, otherwise the existing wallet moves to the sender. The
// writes are independent round trips; a failure part way leaves the earlier ones in place.
func (s *Service) UpsertWalletAddress(ctx context.Context, payload models.EventPayload, address string) error {
	if address == "" {
		return fail(ctx, ErrInvalidInput, "The wallet address is empty.", nil)
	}

	if _, err := s.EnsureUser(ctx, payload); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, "wallet:"+address)
	if err != nil {
		return fail(ctx, ErrStorage, "Could not lock the wallet address.", err)
	}
	defer unlock()

	registered, err := s.wallets.FindWalletByAddress(ctx, address)
	if err != nil {
		return fail(ctx, ErrStorage, "Could not get the registered wallet.", err)
	}

	metadata := BuildLocationMetadata(payload)

	if registered == nil {
		return s.registerNewWallet(ctx, payload, address, metadata)
	}
	return s.updateExistingWallet(ctx, payload, registered, metadata)
}

// UnlinkWallet clears the wallet pointer of userId. The wallet and its location stay.
func (s *Service) UnlinkWallet(ctx context.Context, userId int64) error {
	user, err := s.findUserWithWallet(ctx, userId)
	if err != nil {
		return err
	}

	if !user.HasWallet() {
		return fail(ctx, ErrNoWalletLinked, "The user does not have an associated wallet to unlink", nil)
	}

	if err := s.users.ClearWallet(ctx, user.Id); err != nil {
		return fail(ctx, ErrStorage, "Could not unlink the wallet.", err)
	}

	zerolog.Ctx(ctx).Info().Int64("user_id", user.Id).Int64("wallet_id", *user.WalletId).Msg("Unlinked wallet")
	return nil
}

// Enrich overwrites the location of w with metadata. A wallet without a location breaks
// the data model and is reported as ErrInvariant.
func (s *Service) Enrich(ctx context.Context, w *userdata.Wallet, metadata LocationMetadata) error {
	if w == nil || w.LocationId == nil {
		return fail(ctx, ErrInvariant, "The location ID is null.", nil)
	}

	zerolog.Ctx(ctx).Debug().
		Int64("wallet_id", w.Id).
		Int64("location_id", *w.LocationId).
		Object("location", metadata).
		Msg("Enriching wallet location metadata")

	if err := s.locations.UpdateLocation(ctx, *w.LocationId, metadata.Location()); err != nil {
		return fail(ctx, ErrStorage, "Could not update the wallet location.", err)
	}

	return nil
}

func (s *Service) findUserWithWallet(ctx context.Context, userId int64) (*userdata.User, error) {
	user, err := s.users.FindUserWithWallet(ctx, userId)
	if err != nil {
		if repos.IsNoRows(err) {
			return nil, fail(ctx, ErrNotFound, "Could not find the user.", err)
		}
		return nil, fail(ctx, ErrStorage, "Could not check the user's wallet.", err)
	}

	return user, nil
}

func (s *Service) registerNewWallet(ctx context.Context, payload models.EventPayload, address string, metadata LocationMetadata) error {
	location, err := s.locations.InsertLocation(ctx, metadata.Location())
	if err != nil {
		return fail(ctx, ErrStorage, "Could not create the wallet location.", err)
	}

	created, err := s.wallets.InsertWallet(ctx, address, &location.Id)
	if err != nil {
		if !repos.IsDuplicate(err) {
			return fail(ctx, ErrStorage, "Could not insert the new wallet.", err)
		}

		// lost the race for this address; continue as a reassignment
		zerolog.Ctx(ctx).Warn().Str("address", address).Int64("location_id", location.Id).Msg("Wallet registered concurrently, reading it back")

		registered, ferr := s.wallets.FindWalletByAddress(ctx, address)
		if ferr != nil {
			return fail(ctx, ErrStorage, "Could not get the registered wallet.", ferr)
		}
		if registered == nil {
			return fail(ctx, ErrStorage, "Could not insert the new wallet.", err)
		}
		return s.updateExistingWallet(ctx, payload, registered, metadata)
	}

	zerolog.Ctx(ctx).Info().Int64("wallet_id", created.Id).Int64("user_id", payload.Sender.Id).Msg("Registered new wallet")

	if err := s.linkWallet(ctx, created, payload.Sender.Id); err != nil {
		return err
	}

	return s.Enrich(ctx, created, metadata)
}

func (s *Service) updateExistingWallet(ctx context.Context, payload models.EventPayload, w *userdata.Wallet, metadata LocationMetadata) error {
	if err := s.linkWallet(ctx, w, payload.Sender.Id); err != nil {
		return err
	}

	if w.LocationId == nil {
		zerolog.Ctx(ctx).Warn().Int64("wallet_id", w.Id).Msg("Wallet has no location to enrich")
		return nil
	}

	return s.Enrich(ctx, w, metadata)
}

// linkWallet points userId at w and takes it away from any previous holder.
func (s *Service) linkWallet(ctx context.Context, w *userdata.Wallet, userId int64) error {
	if err := s.users.LinkWalletToUser(ctx, w.Id, userId); err != nil {
		return fail(ctx, ErrStorage, "Could not update the wallet.", err)
	}

	released, err := s.users.ReleaseWallet(ctx, w.Id, userId)
	if err != nil {
		return fail(ctx, ErrStorage, "Could not release the wallet from its previous owner.", err)
	}
	if released > 0 {
		zerolog.Ctx(ctx).Info().Int64("wallet_id", w.Id).Int64("user_id", userId).Int64("released", released).Msg("Reassigned wallet")
	}

	return nil
}
