package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/server"
)

// AppServer 应用服务器：回复服务的 HTTP 接口 + MCP 工具
type AppServer struct {
	botService *BotService
	backend    *server.Server
	mcpServer  *mcp.Server
	router     *gin.Engine
	httpServer *http.Server
}

func NewAppServer(botService *BotService, backend *server.Server) *AppServer {
	appServer := &AppServer{
		botService: botService,
		backend:    backend,
	}
	appServer.mcpServer = InitMCPServer(appServer)
	return appServer
}

// setupRoutes mounts the MCP streamable HTTP endpoint on the reply service
// router.
func (s *AppServer) setupRoutes() *gin.Engine {
	router := s.backend.Router()

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	router.Any("/mcp", gin.WrapH(mcpHandler))
	router.Any("/mcp/*path", gin.WrapH(mcpHandler))

	return router
}

// Start 启动 HTTP 服务，收到退出信号后优雅关闭
func (s *AppServer) Start(port string) error {
	s.router = s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("starting server on %s", port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-quit:
	}

	logrus.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.Warnf("server shutdown: %v", err)
		return err
	}
	logrus.Info("server stopped")
	return nil
}

// StartSTDIO 以 STDIO 模式运行 MCP 服务器，直到客户端断开或收到退出信号
func (s *AppServer) StartSTDIO() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
