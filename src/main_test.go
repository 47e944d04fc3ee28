package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"portal/src/boot"
	"portal/src/db"
	"portal/src/notify"
	"portal/src/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const adminSecret = "testsecret"

type TestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Manager    *notify.Manager
	Reconciler *notify.Reconciler
	Router     *gin.Engine
}

func NewMemoryDB() *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("ADMIN_SECRET", adminSecret)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reminderminutes", reminderMinutesValidatorFunc)
	}

	d := NewMemoryDB()
	db.NewDB(d)
	s.DB = d
	boot.InitDb()

	store, err := storage.NewFileStorage(s.T().TempDir())
	if err != nil {
		log.Fatalf("error creating storage: %s", err.Error())
	}
	s.Manager = notify.NewManager(store)
	s.Reconciler = notify.NewReconciler(s.Manager)

	router := setupRouter()
	apiv1 := apiv1Group(router)
	notificationHandlers(apiv1, s.Manager, s.Reconciler)
	boardHandlers(apiv1)
	pageHandlers(apiv1)
	mapHandlers(apiv1)
	s.Router = router
}

func (s *TestSuite) performRequest(method, target, body string, admin bool) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("x-secret", adminSecret)
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) TestA_SeededNotifications() {
	w := s.performRequest(http.MethodGet, "/api/v1/notifications", "", false)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	body := w.Body.String()
	data := gjson.Get(body, "data")
	assert.True(s.T(), data.IsArray())

	unreadInData := 0
	welcomeIds := 0
	for _, n := range data.Array() {
		if !n.Get("read").Bool() {
			unreadInData++
		}
		if strings.HasPrefix(n.Get("id").String(), "welcome-") {
			welcomeIds++
		}
	}
	assert.GreaterOrEqual(s.T(), welcomeIds, 2)
	assert.Equal(s.T(), int64(unreadInData), gjson.Get(body, "unread").Int())
	assert.True(s.T(), gjson.Get(body, "settings.push_notifications").Bool())
}

func (s *TestSuite) TestB_AdminBroadcast() {
	payload := `{"title":"Gym closure","message":"Rec center closed Friday","type":"custom","priority":"high"}`

	w := s.performRequest(http.MethodPost, "/api/v1/notifications", payload, false)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)

	w = s.performRequest(http.MethodPost, "/api/v1/notifications", payload, true)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	body := w.Body.String()
	assert.Equal(s.T(), "Gym closure", gjson.Get(body, "data.title").String())
	assert.False(s.T(), gjson.Get(body, "data.read").Bool())
	assert.NotEmpty(s.T(), gjson.Get(body, "data.id").String())
}

func (s *TestSuite) TestC_MarkReadFlow() {
	payload := `{"title":"Billing due","message":"Fall tuition due soon","type":"system"}`
	w := s.performRequest(http.MethodPost, "/api/v1/notifications", payload, true)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "data.id").String()

	before := gjson.Get(s.performRequest(http.MethodGet, "/api/v1/notifications", "", false).Body.String(), "unread").Int()

	w = s.performRequest(http.MethodPatch, fmt.Sprintf("/api/v1/notifications/%s/read", id), "", false)
	assert.Equal(s.T(), http.StatusNoContent, w.Code)

	after := gjson.Get(s.performRequest(http.MethodGet, "/api/v1/notifications", "", false).Body.String(), "unread").Int()
	assert.Equal(s.T(), before-1, after)

	// Marking again is a no-op.
	w = s.performRequest(http.MethodPatch, fmt.Sprintf("/api/v1/notifications/%s/read", id), "", false)
	assert.Equal(s.T(), http.StatusNoContent, w.Code)
	again := gjson.Get(s.performRequest(http.MethodGet, "/api/v1/notifications", "", false).Body.String(), "unread").Int()
	assert.Equal(s.T(), after, again)

	w = s.performRequest(http.MethodDelete, fmt.Sprintf("/api/v1/notifications/%s", id), "", false)
	assert.Equal(s.T(), http.StatusNoContent, w.Code)
	for _, n := range gjson.Get(s.performRequest(http.MethodGet, "/api/v1/notifications", "", false).Body.String(), "data").Array() {
		assert.NotEqual(s.T(), id, n.Get("id").String())
	}
}

func (s *TestSuite) TestD_SettingsValidationAndFilter() {
	bad := `{"event_notifications":true,"push_notifications":true,"reminder_time":3,"welcome_message_enabled":true}`
	w := s.performRequest(http.MethodPut, "/api/v1/notifications/settings", bad, false)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	hideWelcome := `{"event_notifications":true,"push_notifications":true,"reminder_time":45,"welcome_message_enabled":false}`
	w = s.performRequest(http.MethodPut, "/api/v1/notifications/settings", hideWelcome, false)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	body := s.performRequest(http.MethodGet, "/api/v1/notifications", "", false).Body.String()
	for _, n := range gjson.Get(body, "data").Array() {
		assert.False(s.T(), strings.HasPrefix(n.Get("id").String(), "welcome-"))
	}

	w = s.performRequest(http.MethodGet, "/api/v1/notifications/settings", "", false)
	assert.Equal(s.T(), int64(45), gjson.Get(w.Body.String(), "data.reminder_time").Int())

	restore := `{"event_notifications":true,"push_notifications":true,"reminder_time":30,"welcome_message_enabled":true}`
	w = s.performRequest(http.MethodPut, "/api/v1/notifications/settings", restore, false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *TestSuite) TestE_BoardCrud() {
	post := `{"author":"jordan","title":"Quiet study spots?","body":"Anywhere better than the library 3rd floor?","topic":"campus"}`
	w := s.performRequest(http.MethodPost, "/api/v1/board/posts", post, false)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
	postId := gjson.Get(w.Body.String(), "data.id").Int()
	assert.Greater(s.T(), postId, int64(0))

	reply := fmt.Sprintf(`{"author":"sam","body":"Science Hall atrium is empty at night","parent":%d}`, postId)
	w = s.performRequest(http.MethodPost, "/api/v1/board/posts", reply, false)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	w = s.performRequest(http.MethodGet, fmt.Sprintf("/api/v1/board/posts/%d", postId), "", false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), int64(1), int64(len(gjson.Get(w.Body.String(), "data.replies").Array())))

	orphan := `{"author":"sam","body":"reply to nothing","parent":99999}`
	w = s.performRequest(http.MethodPost, "/api/v1/board/posts", orphan, false)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	w = s.performRequest(http.MethodDelete, fmt.Sprintf("/api/v1/board/posts/%d", postId), "", false)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	w = s.performRequest(http.MethodDelete, fmt.Sprintf("/api/v1/board/posts/%d", postId), "", true)
	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *TestSuite) TestF_Pages() {
	w := s.performRequest(http.MethodGet, "/api/v1/pages", "", false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.GreaterOrEqual(s.T(), len(gjson.Get(w.Body.String(), "data").Array()), 4)

	w = s.performRequest(http.MethodGet, "/api/v1/pages/housing", "", false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.Equal(s.T(), "Housing", gjson.Get(w.Body.String(), "data.title").String())

	update := `{"title":"Housing","body":"Room selection opens March 1."}`
	w = s.performRequest(http.MethodPut, "/api/v1/pages/housing", update, false)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	w = s.performRequest(http.MethodPut, "/api/v1/pages/housing", update, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.performRequest(http.MethodGet, "/api/v1/pages/housing", "", false)
	assert.Equal(s.T(), "Room selection opens March 1.", gjson.Get(w.Body.String(), "data.body").String())

	w = s.performRequest(http.MethodGet, "/api/v1/pages/no-such-page", "", false)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *TestSuite) TestG_MapBuildings() {
	w := s.performRequest(http.MethodGet, "/api/v1/map/buildings", "", false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	data := gjson.Get(w.Body.String(), "data")
	assert.GreaterOrEqual(s.T(), len(data.Array()), 5)
	assert.Equal(s.T(), "Main Library", data.Get("#(code==LIB).name").String())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
