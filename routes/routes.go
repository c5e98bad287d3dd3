package routes

import (
	"github.com/gin-gonic/gin"

	"toolcrib/app"
	"toolcrib/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.NewSrv(a)
	lendCtl := controllers.NewLendingController(s)
	itemCtl := controllers.NewItemController(s)
	userCtl := controllers.NewUserController(s)
	sessCtl := controllers.NewSessionController(s)

	authMW := app.AuthRequired(s.Sessions, s.Repo)
	adminMW := app.AdminOnly()

	// ------------------------------
	// Sessions (the auth stub)
	// ------------------------------
	r.POST("/api/sessions", sessCtl.Create)
	r.DELETE("/api/sessions", authMW, sessCtl.Delete)

	// ------------------------------
	// Lending workflow
	// ------------------------------
	lend := r.Group("/api/lending", authMW)
	{
		lend.POST("/lend", lendCtl.Lend)
		lend.POST("/return", lendCtl.Return)
		lend.GET("/history/:itemId", lendCtl.History)
		lend.GET("/active", lendCtl.Active)
	}

	// ------------------------------
	// Catalog
	// ------------------------------
	items := r.Group("/api/items", authMW)
	{
		items.GET("", itemCtl.ListItems)
		items.GET("/:id", itemCtl.GetItem)
	}
	itemsAdmin := r.Group("/api/items", authMW, adminMW)
	{
		itemsAdmin.POST("", itemCtl.CreateItem)
		itemsAdmin.PUT("/:id", itemCtl.UpdateItem)
		itemsAdmin.DELETE("/:id", itemCtl.DeleteItem)
	}

	// ------------------------------
	// Borrowers (admin only)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.POST("", userCtl.CreateUser)
		users.GET("", userCtl.ListUsers) // ?q=&page=&size=
		users.GET("/:id", userCtl.GetUser)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
	}
}
