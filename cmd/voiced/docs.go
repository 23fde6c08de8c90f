package main

// General API documentation for swaggo. Run `swag init` to regenerate docs.
//
// @title           voiced API
// @version         1.0
// @description     OpenAI-compatible speech gateway with voice cloning and transcription.
//
// @contact.name   voiced maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
