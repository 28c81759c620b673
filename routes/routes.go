package routes

import (
	"net/http"

	"github.com/rjain-dev/estate_booking_system/backend/controllers"
	"github.com/rjain-dev/estate_booking_system/backend/middleware"
	"github.com/rjain-dev/estate_booking_system/backend/models"
	"github.com/rjain-dev/estate_booking_system/backend/socket"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func Routes(router *mux.Router, redisClient *redis.Client, hub *socket.Hub) {
	// Auth routes
	router.HandleFunc("/api/users/register", controllers.RegisterUser()).Methods("POST")
	router.HandleFunc("/api/users/login", controllers.LoginUser()).Methods("POST")

	// Websocket relay and uploaded media are outside the auth gate.
	router.HandleFunc("/ws", hub.ServeWS)
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	admin := middleware.RequireRole(models.RoleAdmin)

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// User routes
	authenticated.Handle("/users/all", admin(controllers.GetAllUsers())).Methods("GET")

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties", controllers.GetAllProperties()).Methods("GET")
	authenticated.HandleFunc("/properties/search", controllers.SearchProperties(redisClient)).Methods("GET")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")

	// Booking routes
	authenticated.HandleFunc("/bookings", controllers.CreateBooking()).Methods("POST")
	authenticated.Handle("/bookings", admin(controllers.GetAllBookings())).Methods("GET")
	authenticated.HandleFunc("/bookings/my", controllers.GetMyBookings()).Methods("GET")
	authenticated.HandleFunc("/bookings/searchbooking", controllers.SearchBookings()).Methods("GET")
	authenticated.HandleFunc("/bookings/confirmbooking", controllers.ConfirmBooking()).Methods("POST")
	authenticated.HandleFunc("/bookings/cancelledbooking", controllers.CancelBooking()).Methods("POST")
	authenticated.Handle("/bookings/getallbookingcounts", admin(controllers.GetAllBookingsCounts())).Methods("GET")
	authenticated.HandleFunc("/bookings/{id}", controllers.DeleteBooking()).Methods("DELETE")

	// Chat routes
	authenticated.HandleFunc("/chats/sendmessage", controllers.SendMessage(hub)).Methods("POST")
	authenticated.HandleFunc("/chats/{receiverId}", controllers.GetMessages()).Methods("GET")
}
