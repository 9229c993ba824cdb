package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/support-chat/chat-service/api"
	"github.com/support-chat/chat-service/internal/auth"
	"github.com/support-chat/chat-service/internal/handler"
	"github.com/support-chat/chat-service/internal/ws"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	JWTSecret string

	Auth     *handler.AuthHandler
	Tickets  *handler.TicketHandler
	Messages *handler.MessageHandler
	Orders   *handler.OrderHandler
	Sessions *ws.SessionHandler
}

func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", handler.Health)
	r.GET("/ready", handler.Ready)
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/") })
	r.GET("/swagger/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = "/swagger/index.html"
			c.Request.RequestURI = "/swagger/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.POST("/api/v1/auth/register", d.Auth.Register)
	r.POST("/api/v1/auth/login", d.Auth.Login)

	// Session bootstrap authenticates inside the upgrade, so no middleware
	// here: failures must close with the policy violation code, not 401.
	r.GET("/ws/tickets/:id", d.Sessions.Ticket)
	r.GET("/ws/orders/:order_id", d.Sessions.Order)

	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(d.JWTSecret))
	{
		v1.GET("/auth/me", d.Auth.Me)

		v1.POST("/tickets", d.Tickets.Create)
		v1.GET("/tickets", d.Tickets.List)
		v1.GET("/tickets/:id", d.Tickets.Get)
		v1.PUT("/tickets/:id/status", d.Tickets.UpdateStatus)

		v1.POST("/messages", d.Messages.Create)
		v1.GET("/messages/:ticket_id", d.Messages.ListByTicket)

		v1.POST("/orders", d.Orders.Create)
		v1.GET("/orders", d.Orders.List)
		v1.GET("/chat/:order_id", d.Orders.ChatHistory)
	}

	return r
}
