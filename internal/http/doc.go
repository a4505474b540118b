// Package http provides the HTTP client used to fetch cover thumbnails.
package http
