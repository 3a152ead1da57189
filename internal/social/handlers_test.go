package social

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func authAs(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("username", "tester")
		return c.Next()
	}
}

func newSocialApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	app := fiber.New()
	RegisterRoutes(app, NewService(mock), authAs("user-1"))
	return app, mock
}

func TestSendRequestHandler(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users`).
		WithArgs("user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM friendships`).
		WithArgs("user-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM friend_requests`).
		WithArgs("user-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO friend_requests`).
		WithArgs(pgxmock.AnyArg(), "user-1", "user-2", "pending").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	resp, err := app.Test(httptest.NewRequest("POST", "/friends/request/user-2", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Friend request sent") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestSendRequestHandlerSelf(t *testing.T) {
	app, _ := newSocialApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/friends/request/user-1", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSendRequestHandlerUnknownTarget(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users`).
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	resp, err := app.Test(httptest.NewRequest("POST", "/friends/request/nobody", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAcceptHandlerNotFound(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`UPDATE friend_requests SET status = 'accepted'`).
		WithArgs("req-9", "user-1").
		WillReturnError(pgx.ErrNoRows)

	resp, err := app.Test(httptest.NewRequest("POST", "/friends/accept/req-9", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPendingRequestsHandlerEmptyArray(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`FROM friend_requests fr`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "from_user_id", "username", "created_at"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/friends/requests", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestFriendsHandler(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`FROM friendships f`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "spots_count"}).
			AddRow("user-2", "bob", 3))

	resp, err := app.Test(httptest.NewRequest("GET", "/friends", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var friends []Friend
	if err := json.NewDecoder(resp.Body).Decode(&friends); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Fatalf("unexpected friends: %+v", friends)
	}
}

func TestSearchHandler(t *testing.T) {
	app, mock := newSocialApp(t)

	mock.ExpectQuery(`ILIKE`).
		WithArgs("bo", "user-1", searchLimit).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "spots_count", "is_friend"}).
			AddRow("user-2", "bob", 3, true))

	resp, err := app.Test(httptest.NewRequest("GET", "/users/search?q=bo", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var results []SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || !results[0].IsFriend {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchHandlerShortQuery(t *testing.T) {
	app, _ := newSocialApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/users/search?q=b", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}
