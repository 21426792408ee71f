package types

import "github.com/google/uuid"

// EditorRole is the only role allowed to commit recipe writes.
const EditorRole = "editor"

// TokenClaims is the capability carried by a validated editor token.
// Write workflows receive it explicitly; they never read identity from
// ambient state.
type TokenClaims struct {
	EditorID uuid.UUID `json:"editor_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// CanWrite reports whether the capability permits persistence writes.
func (c *TokenClaims) CanWrite() bool {
	return c != nil && c.EditorID != uuid.Nil && c.Role == EditorRole
}
