package middleware

import (
	"crypto/sha256"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
)

// HeaderAdminPassword carries the shared admin password.
const HeaderAdminPassword = "X-Admin-Password"

// RequireAdmin admits requests whose X-Admin-Password matches the bcrypt
// hash. A missing header is 401, a wrong password 403.
//
// The digest of the last accepted password is remembered so a console
// polling admin routes does not pay a bcrypt comparison per request.
func RequireAdmin(passwordHash string) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		accepted [sha256.Size]byte
		known    bool
	)

	hash := []byte(passwordHash)

	return func(c *gin.Context) {
		password := c.GetHeader(HeaderAdminPassword)
		if password == "" {
			dto.AbortWithCode(c, dto.ErrorCodeUnauthorized, "admin password required")
			return
		}

		digest := sha256.Sum256([]byte(password))

		mu.Lock()
		ok := known && digest == accepted
		mu.Unlock()

		if !ok {
			if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
				logging.FromContext(c.Request.Context()).WarnContext(c.Request.Context(), "admin authentication failed",
					slog.String("client_ip", c.ClientIP()),
				)
				dto.AbortWithCode(c, dto.ErrorCodeForbidden, "invalid admin password")

				return
			}

			mu.Lock()
			accepted, known = digest, true
			mu.Unlock()
		}

		c.Next()
	}
}

// HashPassword returns a bcrypt hash suitable for admin.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
