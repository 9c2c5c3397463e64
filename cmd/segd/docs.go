package main

// General API documentation for swaggo. Run `swag init -g cmd/segd/docs.go -o docs` to regenerate docs/.
//
// @title           segd API
// @version         1.0
// @description     HTTP API for point-prompted image segmentation with a pretrained Segment Anything model.
//
// @contact.name   segd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
