package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/infinity-exam/quizfront/internal/backend"
)

// credential builds a backend credential from the browser's ambient
// cookie header.
func credential(c *fiber.Ctx) *backend.Credential {
	return backend.NewCredential(c.Get(fiber.HeaderCookie))
}

// relayCookies forwards backend Set-Cookie headers to the browser.
func relayCookies(c *fiber.Ctx, cred *backend.Credential) {
	for _, v := range cred.SetCookies() {
		c.Response().Header.Add(fiber.HeaderSetCookie, v)
	}
}

func sessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("sid").(string)
	return sid
}

func currentUser(c *fiber.Ctx) *backend.User {
	user, _ := c.Locals("user").(*backend.User)
	return user
}

func attemptID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("attemptId"), 10, 64)
}

func testingPath(attemptID uint64, position int) string {
	if position > 0 {
		return fmt.Sprintf("/testing/%d?pos=%d", attemptID, position)
	}
	return fmt.Sprintf("/testing/%d", attemptID)
}

func resultsPath(attemptID uint64) string {
	return fmt.Sprintf("/results/%d", attemptID)
}
