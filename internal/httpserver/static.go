package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const landingPage = `
    <p style="display : flex; justify-content: center; align-items: center; height: 100%; text-align: center; font-size: 4rem; color: #ea4459;">
    Technocare
    <br/>
    at your service
    </p>
    `

var brands = []string{"Apple", "Samsung", "Google", "OnePlus", "Xiaomi", "Sony"}

func Landing(c echo.Context) error {
	return c.HTML(http.StatusOK, landingPage)
}

func Brands(c echo.Context) error {
	return c.JSON(http.StatusOK, brands)
}
