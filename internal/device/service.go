// Package device owns the in-memory copy of the persistent DeviceConfig
// and the administrative operations mutating it. Every mutation is
// persisted before it returns; the integer status codes are the wire
// contract of the function call surface.
package device

import (
	"context"
	"strconv"
	"sync"

	"github.com/particle-iot/messaging-arch-for-scale/internal/db"
	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
	"github.com/particle-iot/messaging-arch-for-scale/internal/topic"
)

const (
	StatusOK               = 0
	StatusInvalidArgument  = -1
	StatusCapacityExceeded = -2
)

// Subscriptions is the slice of the MQTT client the service needs to swap
// the user-scoped event subscription when the user ID changes.
type Subscriptions interface {
	Subscribe(filter string) error
	Unsubscribe(filter string) error
}

type Service struct {
	mtx    sync.Mutex
	config db.DeviceConfig
	store  db.ConfigDB
	subs   Subscriptions
	logger logger.Logger
}

// NewService loads the persisted config (or its defaults if storage was
// never written) and returns the service owning it for process lifetime.
func NewService(ctx context.Context, store db.ConfigDB, subs Subscriptions, logLevel int) (*Service, error) {
	config, err := store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &Service{
		config: config,
		store:  store,
		subs:   subs,
		logger: logger.GetLogger("[Device Service]", logLevel),
	}, nil
}

// Config returns a snapshot; the group slice is copied so callers cannot
// alias the service's state.
func (s *Service) Config() db.DeviceConfig {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	ret := s.config
	ret.GroupIDs = make([]uint8, len(s.config.GroupIDs))
	copy(ret.GroupIDs, s.config.GroupIDs)

	return ret
}

func (s *Service) UserID() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.config.UserID
}

// AddToGroup appends a group membership. Valid groups are 1..255; 0 is
// rejected, matching the historical "falsy means invalid" convention.
// Duplicates are not checked. Returns the group number on success.
func (s *Service) AddToGroup(ctx context.Context, arg string) int {
	group, err := strconv.Atoi(arg)
	if err != nil {
		group = 0
	}

	if group < 1 || group > 255 {
		s.logger.Warn("addToGroup: '%v' is not a valid group", arg)
		return StatusInvalidArgument
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.config.GroupIDs) >= db.MaxGroups {
		s.logger.Warn("addToGroup: membership is full (%v groups)", db.MaxGroups)
		return StatusCapacityExceeded
	}

	s.config.GroupIDs = append(s.config.GroupIDs, uint8(group))
	s.persist(ctx)

	s.logger.Info("Added to group %v", group)
	return group
}

// ClearGroups empties the membership. Always succeeds.
func (s *Service) ClearGroups(ctx context.Context) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.config.GroupIDs = nil
	s.persist(ctx)

	s.logger.Info("Cleared group membership")
	return StatusOK
}

// SetUserID stores a new user ID, truncated to 8 characters, and swaps
// the event subscription from the old user scope to the new one. Only
// the old user filter is dropped; other subscriptions survive.
func (s *Service) SetUserID(ctx context.Context, arg string) int {
	if arg == "" {
		s.logger.Warn("setUserID: empty user ID rejected")
		return StatusInvalidArgument
	}

	if len(arg) > db.MaxUserIDLen {
		arg = arg[:db.MaxUserIDLen]
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	oldUserID := s.config.UserID
	s.config.UserID = arg
	s.persist(ctx)

	if oldUserID != "" && oldUserID != arg {
		if err := s.subs.Unsubscribe(topic.EventFilter(oldUserID)); err != nil {
			s.logger.Error("Error unsubscribing from '%v': %v", oldUserID, err)
		}
	}
	if oldUserID != arg {
		if err := s.subs.Subscribe(topic.EventFilter(arg)); err != nil {
			s.logger.Error("Error subscribing to '%v': %v", arg, err)
		}
	}

	s.logger.Info("User ID set to '%v'", arg)
	return StatusOK
}

// persist is called with the mutex held so a read-modify-write-persist
// sequence is atomic with respect to concurrent delivery.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.SaveConfig(ctx, s.config); err != nil {
		s.logger.Error("Error persisting device config: %v", err)
	}
}
