package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
)

// MessageType is the value of the "messageType" field every frame carries.
type MessageType string

const (
	TypeHelloServer     MessageType = "HelloServer"
	TypeWelcomeClient   MessageType = "WelcomeClient"
	TypePingRequest     MessageType = "PingRequest"
	TypePingResponse    MessageType = "PingResponse"
	TypeHistoryPush     MessageType = "HistoryPush"
	TypeHistorySaved    MessageType = "HistorySaved"
	TypeHistoryNotSaved MessageType = "HistoryNotSaved"
	TypeHistoryGetAll   MessageType = "HistoryGetAll"
	TypeHistoryAll      MessageType = "HistoryAll"
	TypeGoodbyeServer   MessageType = "GoodbyeServer"
	TypeGoodbyeClient   MessageType = "GoodbyeClient"
)

func (t MessageType) known() bool {
	switch t {
	case TypeHelloServer, TypeWelcomeClient, TypePingRequest, TypePingResponse,
		TypeHistoryPush, TypeHistorySaved, TypeHistoryNotSaved,
		TypeHistoryGetAll, TypeHistoryAll, TypeGoodbyeServer, TypeGoodbyeClient:
		return true
	}
	return false
}

// envelope extracts only the type of an inbound frame.
type envelope struct {
	MessageType MessageType `json:"messageType"`
}

// ParseMessageType reads the messageType of a raw frame.
func ParseMessageType(data []byte) (MessageType, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if !env.MessageType.known() {
		return env.MessageType, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.MessageType)
	}
	return env.MessageType, nil
}

// DecodeMessage unmarshals a frame whose type was already checked.
func DecodeMessage(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return nil
}

// HistoryEntry is one recorded match as it travels on the wire.
type HistoryEntry struct {
	PlayerOneName   string `json:"playerOneName"`
	PlayerTwoName   string `json:"playerTwoName"`
	PlayerOneWinner bool   `json:"playerOneWinner"`
	PlayerTwoWinner bool   `json:"playerTwoWinner"`
}

// Valid reports whether both names are set and at most one side won.
func (h HistoryEntry) Valid() bool {
	return h.PlayerOneName != "" && h.PlayerTwoName != "" && !(h.PlayerOneWinner && h.PlayerTwoWinner)
}

type HelloServer struct {
	MessageType MessageType `json:"messageType"`
}

type WelcomeClient struct {
	MessageType    MessageType `json:"messageType"`
	UserID         string      `json:"userId"`
	WelcomeMessage string      `json:"welcomeMessage"`
}

// PingRequest carries the sender's clock in unix milliseconds.
type PingRequest struct {
	MessageType MessageType `json:"messageType"`
	StartTime   int64       `json:"startTime"`
}

type PingResponse struct {
	MessageType MessageType `json:"messageType"`
	StartTime   int64       `json:"startTime"`
}

type HistoryPush struct {
	MessageType MessageType `json:"messageType"`
	UserID      string      `json:"userId"`
	HistoryEntry
}

type HistorySaved struct {
	MessageType MessageType `json:"messageType"`
}

type HistoryNotSaved struct {
	MessageType MessageType `json:"messageType"`
}

type HistoryGetAll struct {
	MessageType MessageType `json:"messageType"`
	UserID      string      `json:"userId"`
}

type HistoryAll struct {
	MessageType MessageType    `json:"messageType"`
	History     []HistoryEntry `json:"history"`
}

type GoodbyeServer struct {
	MessageType MessageType `json:"messageType"`
	UserID      string      `json:"userId"`
}

type GoodbyeClient struct {
	MessageType    MessageType `json:"messageType"`
	GoodbyeMessage string      `json:"goodbyeMessage"`
}

func NewHelloServer() HelloServer {
	return HelloServer{MessageType: TypeHelloServer}
}

func NewWelcomeClient(userID, text string) WelcomeClient {
	return WelcomeClient{MessageType: TypeWelcomeClient, UserID: userID, WelcomeMessage: text}
}

func NewPingRequest(startTime int64) PingRequest {
	return PingRequest{MessageType: TypePingRequest, StartTime: startTime}
}

func NewPingResponse(startTime int64) PingResponse {
	return PingResponse{MessageType: TypePingResponse, StartTime: startTime}
}

func NewHistoryPush(userID string, entry HistoryEntry) HistoryPush {
	return HistoryPush{MessageType: TypeHistoryPush, UserID: userID, HistoryEntry: entry}
}

func NewHistorySaved() HistorySaved {
	return HistorySaved{MessageType: TypeHistorySaved}
}

func NewHistoryNotSaved() HistoryNotSaved {
	return HistoryNotSaved{MessageType: TypeHistoryNotSaved}
}

func NewHistoryGetAll(userID string) HistoryGetAll {
	return HistoryGetAll{MessageType: TypeHistoryGetAll, UserID: userID}
}

// NewHistoryAll never encodes a null history list.
func NewHistoryAll(entries []HistoryEntry) HistoryAll {
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return HistoryAll{MessageType: TypeHistoryAll, History: entries}
}

func NewGoodbyeServer(userID string) GoodbyeServer {
	return GoodbyeServer{MessageType: TypeGoodbyeServer, UserID: userID}
}

func NewGoodbyeClient(text string) GoodbyeClient {
	return GoodbyeClient{MessageType: TypeGoodbyeClient, GoodbyeMessage: text}
}
