package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shalom-hotel/controllers"
	"shalom-hotel/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controllers onto the gin engine. Admin-only routes sit
// behind RequireAuth plus RequireAdmin; guest routes need RequireAuth only.
func SetupRouter(
	ac *controllers.AuthController,
	uc *controllers.UserController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	jwtSecret []byte,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.RequireAuth(jwtSecret)
	adminOnly := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("/me", uc.GetProfile)
			users.GET("", adminOnly, uc.GetUsers)
			users.GET("/:id", uc.GetUser)
			users.PUT("/:id", uc.UpdateUser)
			users.DELETE("/:id", adminOnly, uc.DeleteUser)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", rc.GetRoomTypes)
			roomTypes.GET("/:id", rc.GetRoomType)
			roomTypes.POST("", authRequired, adminOnly, rc.AddRoomType)
			roomTypes.PUT("/:id", authRequired, adminOnly, rc.UpdateRoomType)
			roomTypes.DELETE("/:id", authRequired, adminOnly, rc.DeleteRoomType)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/available", rc.GetAvailableRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.POST("", authRequired, adminOnly, rc.AddRoom)
			rooms.PUT("/:id", authRequired, adminOnly, rc.UpdateRoom)
			rooms.PATCH("/:id/status", authRequired, adminOnly, rc.UpdateRoomStatus)
			rooms.DELETE("/:id", authRequired, adminOnly, rc.DeleteRoom)
		}

		bookings := api.Group("/bookings", authRequired)
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/my", bc.GetMyBookings)
			bookings.GET("", adminOnly, bc.GetBookings)
			bookings.GET("/:code", bc.GetBooking)
			bookings.POST("/:code/confirm", adminOnly, bc.ConfirmBooking)
			bookings.POST("/:code/cancel", bc.CancelBooking)
			bookings.POST("/:code/check-in", adminOnly, bc.CheckIn)
			bookings.POST("/:code/check-out", adminOnly, bc.CheckOut)
		}
	}

	return r
}
