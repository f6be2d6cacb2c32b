package orch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/CureSaba/discord-join2create/internal/core"
	"github.com/CureSaba/discord-join2create/internal/domain"
)

// fakePlatform is an in-memory core.Platform. It tracks channels and
// voice locations under a mutex and counts every mutating call so
// tests can assert "zero platform mutations" outcomes.
type fakePlatform struct {
	mu       sync.Mutex
	guild    domain.GuildID
	channels map[domain.ChannelID]*domain.Channel
	voice    map[domain.UserID]domain.ChannelID

	failCreate bool
	failRename bool
	failDelete bool
	failMove   bool

	creates, deletes, renames, limits, moves, disconnects int

	// onDelete runs before a delete applies; onList runs during the
	// channel listing. Both widen race windows in tests.
	onDelete func(ch domain.ChannelID)
	onList   func()
}

func newFakePlatform(guild domain.GuildID) *fakePlatform {
	return &fakePlatform{
		guild:    guild,
		channels: make(map[domain.ChannelID]*domain.Channel),
		voice:    make(map[domain.UserID]domain.ChannelID),
	}
}

func (f *fakePlatform) addChannel(name string) domain.ChannelID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := domain.ChannelID(uuid.NewString())
	f.channels[id] = &domain.Channel{ID: id, GuildID: f.guild, Name: name}
	return id
}

// removeChannel drops a channel out of band, as if a moderator deleted
// it behind the system's back.
func (f *fakePlatform) removeChannel(ch domain.ChannelID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, ch)
}

func (f *fakePlatform) connect(user domain.UserID, ch domain.ChannelID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voice[user] = ch
}

func (f *fakePlatform) disconnect(user domain.UserID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.voice, user)
}

func (f *fakePlatform) channelByName(name string) (domain.Channel, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels {
		if ch.Name == name {
			return *ch, true
		}
	}
	return domain.Channel{}, false
}

func (f *fakePlatform) channelCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ch := range f.channels {
		if ch.Name == name {
			n++
		}
	}
	return n
}

func (f *fakePlatform) locationOf(user domain.UserID) (domain.ChannelID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.voice[user]
	return ch, ok
}

func (f *fakePlatform) Channels(ctx context.Context, guild domain.GuildID) ([]domain.Channel, error) {
	f.mu.Lock()
	out := make([]domain.Channel, 0, len(f.channels))
	for _, ch := range f.channels {
		out = append(out, *ch)
	}
	hook := f.onList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, nil
}

func (f *fakePlatform) Channel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) (domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.channels[ch]
	if !ok {
		return domain.Channel{}, fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	return *c, nil
}

func (f *fakePlatform) VoiceMembers(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) ([]domain.UserID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.channels[ch]; !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	var out []domain.UserID
	for user, loc := range f.voice {
		if loc == ch {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakePlatform) CreateVoiceChannel(ctx context.Context, guild domain.GuildID, name string, policy core.CreatePolicy) (domain.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.failCreate {
		return domain.Channel{}, errors.New("create rejected")
	}
	id := domain.ChannelID(uuid.NewString())
	c := &domain.Channel{ID: id, GuildID: guild, Name: name}
	f.channels[id] = c
	return *c, nil
}

func (f *fakePlatform) DeleteChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID) error {
	f.mu.Lock()
	hook := f.onDelete
	f.mu.Unlock()
	if hook != nil {
		hook(ch)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failDelete {
		return errors.New("delete rejected")
	}
	if _, ok := f.channels[ch]; !ok {
		return fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	delete(f.channels, ch)
	return nil
}

func (f *fakePlatform) RenameChannel(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renames++
	if f.failRename {
		return errors.New("rename rejected")
	}
	c, ok := f.channels[ch]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	c.Name = name
	return nil
}

func (f *fakePlatform) SetUserLimit(ctx context.Context, guild domain.GuildID, ch domain.ChannelID, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits++
	c, ok := f.channels[ch]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	c.UserLimit = limit
	return nil
}

func (f *fakePlatform) MoveMember(ctx context.Context, guild domain.GuildID, user domain.UserID, ch domain.ChannelID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves++
	if f.failMove {
		return errors.New("move rejected")
	}
	if _, ok := f.channels[ch]; !ok {
		return fmt.Errorf("%w: %s", core.ErrStaleRoom, ch)
	}
	f.voice[user] = ch
	return nil
}

func (f *fakePlatform) DisconnectMember(ctx context.Context, guild domain.GuildID, user domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	delete(f.voice, user)
	return nil
}

func (f *fakePlatform) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates + f.deletes + f.renames + f.limits + f.moves + f.disconnects
}
