package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"guardiannet-http-service/internal/infrastructure/config"
	"guardiannet-http-service/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// InterfaceNotificationService defines the notification dispatch interface.
// 通知发送是"发后不管"的：发送失败只记录日志，绝不影响核心状态转换。
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	NotifyResident(residentID uint, subject, body string)
	NotifyGuard(guardID uint, subject, body string)
	NotifyVisitorPhone(phone, subject, body string)
}

// notificationPayload MQTT消息体
type notificationPayload struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Timestamp string `json:"timestamp"`
}

// NotificationService 通过MQTT向客户端推送通知
type NotificationService struct {
	Client       mqtt.Client
	Config       *config.Config
	IsConnected  bool
	connMutex    sync.RWMutex // 保护IsConnected字段的读写
	publishMutex sync.Mutex   // 用于保护MQTT消息发布
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	s := &NotificationService{
		Config:      cfg,
		IsConnected: false,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID(cfg.MQTTClientID)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("MQTT连接断开: %v", err)
		s.connMutex.Lock()
		s.IsConnected = false
		s.connMutex.Unlock()
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("MQTT连接成功: %s", cfg.MQTTBrokerURL)
		s.connMutex.Lock()
		s.IsConnected = true
		s.connMutex.Unlock()
	})

	s.Client = mqtt.NewClient(opts)
	return s
}

// 1 Connect 连接到MQTT服务器
func (s *NotificationService) Connect() error {
	s.connMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connMutex.RUnlock()

	if isConnected {
		return nil
	}

	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT连接超时")
	}
	if err := token.Error(); err != nil {
		return err
	}

	s.connMutex.Lock()
	s.IsConnected = true
	s.connMutex.Unlock()
	return nil
}

// 2 Disconnect 断开MQTT连接
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.connMutex.Lock()
	s.IsConnected = false
	s.connMutex.Unlock()
}

// 3 NotifyResident 向居民推送通知
func (s *NotificationService) NotifyResident(residentID uint, subject, body string) {
	topic := fmt.Sprintf("guardiannet/residents/%d/notifications", residentID)
	s.publish(topic, subject, body)
}

// 4 NotifyGuard 向保安推送通知
func (s *NotificationService) NotifyGuard(guardID uint, subject, body string) {
	topic := fmt.Sprintf("guardiannet/guards/%d/notifications", guardID)
	s.publish(topic, subject, body)
}

// 5 NotifyVisitorPhone 向访客手机推送通知（由网关桥接到短信通道）
func (s *NotificationService) NotifyVisitorPhone(phone, subject, body string) {
	topic := fmt.Sprintf("guardiannet/sms/%s", phone)
	s.publish(topic, subject, body)
}

// publish 发布一条通知消息，失败只记录日志
func (s *NotificationService) publish(topic, subject, body string) {
	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	if err := s.Connect(); err != nil {
		logger.Warning("通知发送失败，MQTT未连接: topic=%s err=%v", topic, err)
		return
	}

	payload, err := json.Marshal(notificationPayload{
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("通知序列化失败: %v", err)
		return
	}

	token := s.Client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		logger.Warning("通知发布超时: topic=%s", topic)
		return
	}
	if err := token.Error(); err != nil {
		logger.Warning("通知发布失败: topic=%s err=%v", topic, err)
	}
}
