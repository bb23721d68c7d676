// Package livekit provides the video rooms used for connect chats.
package livekit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// RoomService manages chat rooms and signs join tokens.
type RoomService interface {
	// EnsureRoom creates the room or returns the existing one.
	EnsureRoom(ctx context.Context, name string, opts *RoomOptions) (*Room, error)
	CloseRoom(ctx context.Context, name string) error
	Participants(ctx context.Context, room string) ([]Participant, error)
	JoinToken(grant JoinGrant) (string, error)
	URL() string
}

// RoomOptions configures a new room.
type RoomOptions struct {
	MaxParticipants  uint32
	EmptyTimeout     time.Duration // close when nobody joins
	DepartureTimeout time.Duration // close after the last participant leaves
	Metadata         string
}

// DefaultRoomOptions fits a two-person chat.
func DefaultRoomOptions() *RoomOptions {
	return &RoomOptions{
		MaxParticipants:  2,
		EmptyTimeout:     10 * time.Minute,
		DepartureTimeout: time.Minute,
	}
}

// JoinGrant describes who may join which room.
type JoinGrant struct {
	Room     string
	Identity string
	Name     string
	ValidFor time.Duration
}

// Room holds room information
type Room struct {
	Name            string
	SID             string
	CreatedAt       time.Time
	MaxParticipants uint32
	NumParticipants uint32
	Metadata        string
}

// Participant is someone currently connected to a room.
type Participant struct {
	Identity string
	Name     string
	JoinedAt time.Time
}

// NewRoomService returns the LiveKit server client, or an in-process stand-in
// when useLocal is set (development and tests). Both sign real tokens.
func NewRoomService(url, apiKey, apiSecret string, useLocal bool) RoomService {
	signer := tokenSigner{apiKey: apiKey, apiSecret: apiSecret}
	if useLocal {
		return &localRooms{tokenSigner: signer, url: url, rooms: make(map[string]*Room)}
	}
	return &sdkRooms{
		tokenSigner: signer,
		client:      lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		url:         url,
	}
}

type tokenSigner struct {
	apiKey    string
	apiSecret string
}

// JoinToken signs a token that lets one participant publish and subscribe in one room.
func (s tokenSigner) JoinToken(grant JoinGrant) (string, error) {
	if grant.Room == "" || grant.Identity == "" {
		return "", fmt.Errorf("room and identity are required")
	}
	validFor := grant.ValidFor
	if validFor <= 0 {
		validFor = time.Hour
	}

	canPublish, canSubscribe, canPublishData := true, true, true
	at := auth.NewAccessToken(s.apiKey, s.apiSecret)
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:       true,
		Room:           grant.Room,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}).
		SetIdentity(grant.Identity).
		SetName(grant.Name).
		SetValidFor(validFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// sdkRooms talks to a LiveKit server
type sdkRooms struct {
	tokenSigner
	client *lksdk.RoomServiceClient
	url    string
}

func (c *sdkRooms) URL() string { return c.url }

// EnsureRoom relies on CreateRoom returning the existing room for a known name.
func (c *sdkRooms) EnsureRoom(ctx context.Context, name string, opts *RoomOptions) (*Room, error) {
	if opts == nil {
		opts = DefaultRoomOptions()
	}

	room, err := c.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             name,
		MaxParticipants:  opts.MaxParticipants,
		EmptyTimeout:     uint32(opts.EmptyTimeout / time.Second),
		DepartureTimeout: uint32(opts.DepartureTimeout / time.Second),
		Metadata:         opts.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &Room{
		Name:            room.Name,
		SID:             room.Sid,
		CreatedAt:       time.Unix(room.CreationTime, 0),
		MaxParticipants: room.MaxParticipants,
		NumParticipants: room.NumParticipants,
		Metadata:        room.Metadata,
	}, nil
}

func (c *sdkRooms) CloseRoom(ctx context.Context, name string) error {
	if _, err := c.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: name}); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (c *sdkRooms) Participants(ctx context.Context, room string) ([]Participant, error) {
	resp, err := c.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	out := make([]Participant, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		out = append(out, Participant{
			Identity: p.Identity,
			Name:     p.Name,
			JoinedAt: time.Unix(p.JoinedAt, 0),
		})
	}
	return out, nil
}

// localRooms keeps rooms in memory
type localRooms struct {
	tokenSigner
	url string

	mu    sync.Mutex
	rooms map[string]*Room
}

func (m *localRooms) URL() string { return m.url }

func (m *localRooms) EnsureRoom(_ context.Context, name string, opts *RoomOptions) (*Room, error) {
	if opts == nil {
		opts = DefaultRoomOptions()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[name]; ok {
		cp := *room
		return &cp, nil
	}
	room := &Room{
		Name:            name,
		SID:             "RM_local_" + uuid.NewString(),
		CreatedAt:       time.Now(),
		MaxParticipants: opts.MaxParticipants,
		Metadata:        opts.Metadata,
	}
	m.rooms[name] = room
	cp := *room
	return &cp, nil
}

func (m *localRooms) CloseRoom(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, name)
	return nil
}

func (m *localRooms) Participants(context.Context, string) ([]Participant, error) {
	return []Participant{}, nil
}
