package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/backend"
)

// LocalSession attaches the quizfront session id to the request. The id
// only keys the in-memory attempt view store; authentication itself
// lives in the backend's own cookie, which is relayed untouched.
func (m *Middleware) LocalSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.Sessions.Get(c)
		if err != nil {
			return err
		}

		if sess.Fresh() {
			if err := sess.Save(); err != nil {
				return err
			}
		}

		c.Locals("sid", sess.ID())
		return c.Next()
	}
}

// Authenticate resolves the ambient backend session for a protected
// page. Anything but a confirmed authenticated session redirects to the
// login page, including session probe failures.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cred := backend.NewCredential(c.Get(fiber.HeaderCookie))

		status, err := m.Backend.CheckSession(c.UserContext(), cred)
		if err != nil {
			m.Log.WithError(err).Warn("session check failed")
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !status.Authenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}

		c.Locals("user", status.User)
		return c.Next()
	}
}

// RejectAuthenticated keeps signed-in users away from the register
// page.
func (m *Middleware) RejectAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cred := backend.NewCredential(c.Get(fiber.HeaderCookie))

		status, err := m.Backend.CheckSession(c.UserContext(), cred)
		if err == nil && status.Authenticated {
			return c.Redirect("/login", fiber.StatusFound)
		}

		return c.Next()
	}
}
