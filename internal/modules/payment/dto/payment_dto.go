package dto

type CapturePaymentRequest struct {
	Courses []string `json:"courses" binding:"required,min=1,dive,uuid"`
}

type OrderResponse struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
	KeyID    string `json:"key"`
}

// VerifyPaymentRequest is validated by the service so that missing fields produce a declared failure.
type VerifyPaymentRequest struct {
	OrderID   string   `json:"razorpay_order_id"`
	PaymentID string   `json:"razorpay_payment_id"`
	Signature string   `json:"razorpay_signature"`
	Courses   []string `json:"courses"`
}

type PaymentSuccessEmailRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,min=1"`
}
