package server

import (
	"context"
	"log"
	"net/http"
	"ranobelib-downloader/model"
	"ranobelib-downloader/utils"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserSaver interface {
	SaveUser(ctx context.Context, site string, user *model.User) error
}

type Server struct {
	Service model.Service
	Users   UserSaver
	Site    string
}

func New(service model.Service, users UserSaver, site string) *Server {
	return &Server{Service: service, Users: users, Site: site}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	s.RegisterRoutes(r.Group("/ranobelibme"))
	return r
}

func (s *Server) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", s.login)

	authed := rg.Group("", RequireSession())
	authed.GET("/ranobeList", s.ranobeList)
	authed.GET("/chapters", s.chapters)
	authed.POST("/download", s.download)
	authed.GET("/search", s.search)
}

func (s *Server) login(c *gin.Context) {
	var req model.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
		return
	}

	user, err := s.Service.Login(c.Request.Context(), req)
	if err != nil {
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "login failed"})
		return
	}
	if s.Users != nil {
		if err := s.Users.SaveUser(c.Request.Context(), s.Site, user); err != nil {
			log.Printf("failed to save user %v: %v", user.Email, err)
		}
	}

	for _, cookie := range user.Cookies {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     "/",
			HttpOnly: cookie.HTTPOnly,
			Secure:   cookie.Secure,
		})
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) ranobeList(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id must be a number"})
		return
	}
	works, err := s.Service.ListWorks(c.Request.Context(), id)
	if err != nil {
		log.Printf("failed to list works of %d: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to list works"})
		return
	}
	c.JSON(http.StatusOK, works)
}

func (s *Server) chapters(c *gin.Context) {
	href := strings.TrimSpace(c.Query("href"))
	if href == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "href required"})
		return
	}
	chapters, err := s.Service.ListChapters(c.Request.Context(), href)
	if err != nil {
		log.Printf("failed to list chapters of %v: %v", href, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to list chapters"})
		return
	}
	c.JSON(http.StatusOK, chapters)
}

type downloadReq struct {
	Hrefs []string `json:"hrefs"`
}

type downloadResp struct {
	Contents []model.ReaderContent `json:"contents"`
	Failed   []string              `json:"failed,omitempty"`
	Range    model.ChapterRange    `json:"range"`
}

func (s *Server) download(c *gin.Context) {
	var req downloadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	if len(req.Hrefs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "hrefs required"})
		return
	}

	batch, err := s.Service.FetchContentReport(c.Request.Context(), req.Hrefs, nil)
	if err != nil {
		log.Printf("failed to download chapters: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to download chapters"})
		return
	}
	c.JSON(http.StatusOK, downloadResp{
		Contents: batch.Items,
		Failed:   batch.Failed,
		Range:    utils.ChapterRangeOf(req.Hrefs),
	})
}

func (s *Server) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	kind := model.SearchKind(c.DefaultQuery("type", string(model.SearchManga)))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "query required"})
		return
	}
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "type must be one of: manga, user"})
		return
	}

	result, err := s.Service.Search(c.Request.Context(), query, kind)
	if err != nil {
		log.Printf("search %q failed: %v", query, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "search failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}
