package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var httpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:3033", "服务地址")
		username   = flag.String("username", "admin", "管理员账号")
		password   = flag.String("password", "", "管理员密码")
		mode       = flag.String("mode", "withdrawal", "压测场景: withdrawal / coupon")
		target     = flag.String("id", "", "提现单 ID (withdrawal) 或优惠码 (coupon)")
		status     = flag.String("status", "completed", "提现处理结果: completed / rejected")
		amount     = flag.Float64("amount", 100, "coupon 场景的订单金额")
		concurrent = flag.Int("n", 200, "并发请求数")
		expected   = flag.Int("expect", 1, "预期成功次数")
	)
	flag.Parse()

	if *target == "" || *password == "" {
		fmt.Println("用法: stress_tool -password <pwd> -id <withdrawal id | coupon code> [-mode coupon] [-n 200]")
		os.Exit(2)
	}

	token, err := login(*baseURL, *username, *password)
	if err != nil {
		fmt.Printf("登录失败: %v\n", err)
		os.Exit(1)
	}

	var fire func() bool
	switch *mode {
	case "withdrawal":
		// 同一提现单并发处理，只能有一个请求成功
		body := map[string]any{"status": *status, "admin_notes": "stress test"}
		if *status == "rejected" {
			body["rejection_reason"] = "stress test"
		}
		url := fmt.Sprintf("%s/api/withdrawals/admin/%s/process", *baseURL, *target)
		fire = func() bool { return call(http.MethodPut, url, token, body) }
	case "coupon":
		// 并发核销同一优惠码，成功次数不超过剩余可用次数
		body := map[string]any{"code": *target, "purchase_amount": *amount}
		url := fmt.Sprintf("%s/api/coupons/redeem", *baseURL)
		fire = func() bool { return call(http.MethodPost, url, token, body) }
	default:
		fmt.Printf("未知场景: %s\n", *mode)
		os.Exit(2)
	}

	fmt.Printf("开始压测：%s 场景，%d 个并发请求 (目标: %s)...\n", *mode, *concurrent, *target)

	var wg sync.WaitGroup
	var successCount, failCount atomic.Int64

	start := time.Now()
	for i := 0; i < *concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fire() {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}
	wg.Wait()
	duration := time.Since(start)

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", *concurrent)
	fmt.Printf("QPS: %.2f\n", float64(*concurrent)/duration.Seconds())
	fmt.Printf("成功: %d (预期: %d)\n", successCount.Load(), *expected)
	fmt.Printf("失败: %d\n", failCount.Load())
	fmt.Println("--------------------------------------------------")

	if successCount.Load() > int64(*expected) {
		fmt.Println("❌ 成功次数超过预期，存在并发问题")
		os.Exit(1)
	}
}

func login(baseURL, username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := httpClient.Post(baseURL+"/api/admin/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if !env.Success {
		return "", fmt.Errorf("%d %s", env.Code, env.Message)
	}

	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		return "", fmt.Errorf("解析 token 失败: %w", err)
	}
	return session.Token, nil
}

func call(method, url, token string, body any) bool {
	payload, _ := json.Marshal(body)
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return false
	}
	return env.Success
}
