package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"portal/src/boot"
	"portal/src/config"
	"portal/src/lib"
	"portal/src/middlewares"
	"portal/src/notify"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	engineiotypes "github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	apiPrefix string = "/api/v1"
)

var reminderMinutesValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	minutes, ok := fl.Field().Interface().(uint)
	if !ok {
		return false
	}
	return minutes >= 5 && minutes <= 1440
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

// setupSocketServer mounts the ambient notification channel. Connected tabs
// receive the current snapshot on join and every mutation afterwards via the
// SocketPublisher; the bell widget can also issue read commands here without
// going through REST.
func setupSocketServer(r *gin.Engine, wss *socket.Server, m *notify.Manager) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(time.Second)
	c.SetPingTimeout(200 * time.Millisecond)
	c.SetMaxHttpBufferSize(1_000_000)
	c.SetConnectTimeout(time.Second)
	c.SetCors(&engineiotypes.Cors{
		Origin:      "*",
		Credentials: true,
	})

	wss.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		log.Printf("[socket] new client: %s %s\n", string(client.Id()), client.Nsp().Name())
		client.Emit("notifications:update", notify.Snapshot{
			Notifications: m.ListAll(),
			Timestamp:     time.Now().UTC(),
		})
		client.On("notifications:read", func(args ...any) {
			if len(args) == 0 {
				return
			}
			id, ok := args[0].(string)
			if !ok {
				return
			}
			m.MarkRead(id)
		})
		client.On("notifications:read-all", func(args ...any) {
			m.MarkAllRead()
		})
	})

	r.GET("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	r.POST("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	store, err := lib.CreateStorage()
	if err != nil {
		log.Fatalf("Error initializing storage: %s\n", err.Error())
	}

	router := setupRouter()
	wss := socket.NewServer(nil, nil)

	publishers := []notify.Publisher{lib.NewSocketPublisher(wss)}
	if os.Getenv("REDIS_HOST") != "" {
		publishers = append(publishers, lib.NewRedisPublisher())
	}
	if os.Getenv("PUSHER_APP_ID") != "" {
		publishers = append(publishers, lib.NewPusherPublisher())
	}

	manager := notify.NewManager(store, publishers...)
	reconciler := notify.NewReconciler(manager)

	setupSocketServer(router, wss, manager)

	if _, err := lib.CreateCronJob(manager.Poll, config.GetPollInterval()); err != nil {
		log.Printf("Error scheduling notification poll: %s\n", err.Error())
	}
	boot.InitScheduler()
	defer boot.StopScheduler()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", "x-secret")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reminderminutes", reminderMinutesValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	apiv1 := apiv1Group(router)
	notificationHandlers(apiv1, manager, reconciler)
	calendarHandlers(apiv1)
	mapHandlers(apiv1)
	boardHandlers(apiv1)
	pageHandlers(apiv1)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server error: %s\n", err.Error())
	}
}
