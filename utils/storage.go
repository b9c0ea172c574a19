package utils

import (
	"fmt"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// UploadFile pushes raw bytes to the storage zone and returns the public URL
// served from the pull zone
func UploadFile(path string, data []byte, contentType string) (string, error) {
	client := resty.New()

	url := fmt.Sprintf("%s/%s/%s", config.AppConfig.StorageEndpoint, config.AppConfig.StorageZone, path)

	resp, err := client.R().
		SetHeader("AccessKey", config.AppConfig.StorageApiKey).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(url)
	if err != nil {
		return "", fmt.Errorf("storage upload failed: %v", err)
	}

	if resp.StatusCode() != 201 && resp.StatusCode() != 200 {
		return "", fmt.Errorf("storage upload failed, code: %d", resp.StatusCode())
	}

	return fmt.Sprintf("%s/%s", config.AppConfig.StorageBaseURL, path), nil
}

// DeleteFile removes a previously uploaded file from the storage zone
func DeleteFile(path string) error {
	client := resty.New()

	url := fmt.Sprintf("%s/%s/%s", config.AppConfig.StorageEndpoint, config.AppConfig.StorageZone, path)

	resp, err := client.R().
		SetHeader("AccessKey", config.AppConfig.StorageApiKey).
		Delete(url)
	if err != nil {
		return fmt.Errorf("storage delete failed: %v", err)
	}

	if resp.StatusCode() != 200 && resp.StatusCode() != 404 {
		return fmt.Errorf("storage delete failed, code: %d", resp.StatusCode())
	}

	return nil
}
