package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           vllmd sidecar API
// @version         1.0
// @description     Health, status and adapter-resolution API for the vllmd engine launcher.
//
// @contact.name   vllmd maintainers
// @contact.url    https://github.com/your-org/vllmd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
