package main

import (
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"github.com/pangkywara/tesseractgui/src/pkg/config"
	echomw "github.com/pangkywara/tesseractgui/src/pkg/echo-middleware"
	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
	"github.com/pangkywara/tesseractgui/src/pkg/web"
)

// recognizeRequest is the JSON body variant of POST /recognize; multipart
// uploads with an "image" file part are the other variant.
type recognizeRequest struct {
	ImageURL string `json:"image_url"`
}

type recognizeResponse struct {
	RunDir string        `json:"run_dir"`
	Report ocr.RunReport `json:"report"`
}

/*
main starts the HTTP recognition API.

Routes:
  - GET  /healthz    liveness probe, no auth
  - POST /recognize  bearer-token protected; accepts a multipart "image"
    file or a JSON body with image_url, runs the recognition pipeline and
    returns the run report.
*/
func main() {
	config.CheckIfEnvVarsPresent(echomw.EnvApiBearerToken)

	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	flag.Parse()
	config.InitializeConfig(*configPath)

	middlewareConfig := echomw.Config{
		Address:             config.Cfg.Server.Address,
		Port:                config.Cfg.Server.Port,
		MiddlewareRateLimit: config.Cfg.Server.MiddlewareRateLimit,
		MiddlewareBurst:     config.Cfg.Server.MiddlewareBurst,
	}
	echomw.InitializeConfig(&middlewareConfig)
	echomw.UptdateRateLimits(echomw.Cfg.MiddlewareRateLimit, echomw.Cfg.MiddlewareBurst)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RouteAccessLoggerMiddleware)
	e.Use(echomw.RateLimiterMiddleware)

	e.GET("/healthz", handleHealthz)
	e.POST("/recognize", handleRecognize, echomw.RequireBearerToken)

	listenAddress := fmt.Sprintf("%s:%d", echomw.Cfg.Address, echomw.Cfg.Port)
	tl.Log(tl.Notice, palette.BlueBold, "%s recognition API on '%s'", "Starting", listenAddress)
	startErr := e.Start(listenAddress)
	xerr.QuitIfError(startErr, "Unable to start HTTP server")
}

func handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

/*
handleRecognize runs the pipeline for an uploaded or remote image.

The input image lands in a temp file first, so both intake variants share
the same file-based pipeline; the temp file is removed after the run since
the run directory keeps its own copy of the original.
*/
func handleRecognize(c echo.Context) error {
	imagePath, e := receiveImage(c)
	if e != nil {
		tl.Log(tl.Warning, palette.YellowBold, "Rejecting request: '%s'", e)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "expected an 'image' file part or an image_url JSON field"})
	}
	defer func() {
		_ = os.Remove(imagePath)
	}()

	options := config.Cfg.Ocr.Options()
	runDirPath, report, processErr := ocr.ProcessImage(imagePath, config.Cfg.Ocr.OutputDir, options)
	if processErr != nil {
		tl.Log(tl.Error, palette.Red, "Recognition failed: '%s'", processErr)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "recognition failed"})
	}

	return c.JSON(http.StatusOK, recognizeResponse{RunDir: runDirPath, Report: report})
}

/*
receiveImage stores the request's image in a temp file and returns its path.
Multipart uploads take precedence; otherwise the JSON body must carry a
non-empty image_url to fetch.
*/
func receiveImage(c echo.Context) (imagePath string, e *xerr.Error) {
	fileHeader, formErr := c.FormFile("image")
	if formErr == nil {
		return saveUploadToTempFile(fileHeader)
	}

	request := recognizeRequest{}
	if bindErr := c.Bind(&request); bindErr != nil || strings.TrimSpace(request.ImageURL) == "" {
		err := fmt.Errorf("no image in request")
		return "", xerr.NewError(err, "receive image", c.Path())
	}

	return web.FetchImageToFile(request.ImageURL)
}

func saveUploadToTempFile(fileHeader *multipart.FileHeader) (imagePath string, e *xerr.Error) {
	fileName := fileHeader.Filename

	source, openErr := fileHeader.Open()
	if openErr != nil {
		return "", xerr.NewError(openErr, "open uploaded image", fileName)
	}
	defer source.Close()

	extension := strings.ToLower(filepath.Ext(fileName))
	if extension == "" {
		extension = ".jpg"
	}

	tempFile, createErr := os.CreateTemp("", "upload-*"+extension)
	if createErr != nil {
		return "", xerr.NewError(createErr, "create temp file for upload", fileName)
	}
	defer tempFile.Close()

	if _, copyErr := io.Copy(tempFile, source); copyErr != nil {
		return "", xerr.NewError(copyErr, "store uploaded image", tempFile.Name())
	}

	tl.Log(tl.Info1, palette.Green, "Stored uploaded image '%s' as '%s'", fileName, tempFile.Name())
	return tempFile.Name(), nil
}
