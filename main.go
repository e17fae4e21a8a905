package main

import "github.com/killallgit/mask-editor-api/cmd"

// @title           Mask Editor API
// @version         1.0.0
// @description     Interactive rectangular mask editing over video for inpainting hand-off
// @termsOfService  http://swagger.io/terms/
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/mask-editor-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token from the identity provider, or the configured development token
func main() {
	cmd.Execute()
}
