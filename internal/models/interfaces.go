package models

import (
	"context"
)

type Encryptor interface {
	Encrypt(value string) (encrypted string, err error)
	Decrypt(value string) (decrypted string, err error)
}

type IDGenerator interface {
	ID() (string, error)
}

type SessionRepository interface {
	SessionGetter
	SessionSetter
	SessionRemover
}

type SessionGetter interface {
	GetSession(ctx context.Context, key string) (Session, error)
}

type SessionSetter interface {
	SetSession(ctx context.Context, key string, session Session) error
}

type SessionRemover interface {
	RemoveSession(ctx context.Context, key string) error
}
