package common

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

const defaultSecretSalt = "stoq-secret-salt"

var (
	snowflakeNode *snowflake.Node
	nodeOnce      sync.Once
)

// UUIDint64 returns a snowflake-based int64 identifier
func UUIDint64() int64 {
	nodeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
	})
	return snowflakeNode.Generate().Int64()
}

// GetSecretSalt returns the password hashing salt, overridable via environment
func GetSecretSalt() string {
	if salt := os.Getenv("STOQ_SECRET_SALT"); salt != "" {
		return salt
	}
	return defaultSecretSalt
}

// Sha256HashWithSalt hashes src with the given salt
func Sha256HashWithSalt(src, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// IfEmptyStr returns defval when src is empty
func IfEmptyStr(src, defval string) string {
	if src == "" {
		return defval
	}
	return src
}
