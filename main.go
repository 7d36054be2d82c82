package main

import (
	_ "github.com/Yulian302/taskflow-gateway/docs"
	_ "github.com/joho/godotenv/autoload"
)

// @title Taskflow API
// @version 1.0
// @description Taskflow API gateway: Google sign-in and per-user tasks
// @swagger 2.0

// @license.name Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
