package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medlens/medlens/constants"
	"github.com/medlens/medlens/internal/auth"
	"github.com/medlens/medlens/internal/common"
	"github.com/medlens/medlens/internal/entity"
	"github.com/medlens/medlens/internal/reports"
	"github.com/medlens/medlens/internal/server"
)

func multipartBody(field, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = fw.Write(content)
	Expect(err).NotTo(HaveOccurred())
	for k, v := range fields {
		Expect(w.WriteField(k, v)).To(Succeed())
	}
	Expect(w.Close()).To(Succeed())
	return buf, w.FormDataContentType()
}

func decodeJSON(resp *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	ExpectWithOffset(1, json.Unmarshal(resp.Body.Bytes(), &out)).To(Succeed())
	return out
}

var _ = Describe("API routes", func() {
	var (
		reportSvc *fakeReportService
		chatSvc   *fakeChatService
		authSvc   *fakeAuthService
		router    *gin.Engine
	)

	completedReport := func() *entity.Report {
		return &entity.Report{
			ID:       primitive.NewObjectID(),
			Status:   constants.StatusCompleted,
			Language: "English",
			DiseaseAnalysis: &entity.DiseaseAnalysis{
				DiagnosedConditions: []string{"Anemia"},
			},
		}
	}

	BeforeEach(func() {
		reportSvc = &fakeReportService{submitRep: completedReport()}
		chatSvc = &fakeChatService{answer: "rest and hydrate"}
		authSvc = &fakeAuthService{
			creds: &auth.Credentials{
				Token: "issued-token",
				User:  auth.UserSummary{ID: primitive.NewObjectID().Hex(), Name: "Asha", Email: "asha@example.com"},
			},
			validToken: "good-token",
			tokenUser:  primitive.NewObjectID(),
		}

		uploads, err := server.NewUploadStore(GinkgoT().TempDir(), nil)
		Expect(err).NotTo(HaveOccurred())

		router = server.SetupRouter(reportSvc, chatSvc, authSvc, uploads, server.Options{}, nil)
	})

	do := func(req *http.Request) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	Describe("GET /api/health", func() {
		It("reports OK", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(decodeJSON(resp)["status"]).To(Equal("OK"))
		})

		It("reports degraded when the backing store is down", func() {
			uploads, err := server.NewUploadStore(GinkgoT().TempDir(), nil)
			Expect(err).NotTo(HaveOccurred())
			down := server.SetupRouter(reportSvc, chatSvc, authSvc, uploads, server.Options{
				Health: func(context.Context) error { return errors.New("no reachable servers") },
			}, nil)

			resp := httptest.NewRecorder()
			down.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			Expect(resp.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(decodeJSON(resp)["status"]).To(Equal("DEGRADED"))
		})
	})

	Describe("GET /api/languages", func() {
		It("lists the supported languages with the default first-class", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/languages", nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			out := decodeJSON(resp)
			Expect(out["default"]).To(Equal(constants.DefaultLanguage))
			Expect(out["languages"]).To(ContainElement("Hindi"))
		})
	})

	Describe("POST /api/reports/analyze", func() {
		It("submits the upload and returns the completed record", func() {
			body, contentType := multipartBody("report", "cbc.jpg", []byte("img"), map[string]string{
				"language":   "Hindi",
				"reportType": "digital",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusOK))
			out := decodeJSON(resp)
			Expect(out["success"]).To(BeTrue())
			Expect(out["reportId"]).To(Equal(reportSvc.submitRep.ID.Hex()))

			Expect(reportSvc.submitted).To(HaveLen(1))
			sub := reportSvc.submitted[0]
			Expect(sub.OriginalFileName).To(Equal("cbc.jpg"))
			Expect(sub.Language).To(Equal("Hindi"))
			Expect(sub.ReportType).To(Equal(constants.ReportTypeDigital))
			Expect(sub.UserID).To(BeNil())
		})

		It("normalizes unknown report types to digital", func() {
			body, contentType := multipartBody("report", "cbc.jpg", []byte("img"), map[string]string{
				"reportType": "weird",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(reportSvc.submitted[0].ReportType).To(Equal(constants.ReportTypeDigital))
		})

		It("rejects a request without a file", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", strings.NewReader(""))
			req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeJSON(resp)["message"]).To(Equal("No file uploaded"))
			Expect(reportSvc.submitted).To(BeEmpty())
		})

		It("rejects an unsupported file type", func() {
			body, contentType := multipartBody("report", "notes.docx", []byte("doc"), nil)
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps extraction failures to 400 with the pipeline message", func() {
			reportSvc.submitErr = common.ExtractionError(reports.ErrMsgUnreadableReport)
			body, contentType := multipartBody("report", "cbc.jpg", []byte("img"), nil)
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeJSON(resp)["message"]).To(Equal("Could not extract text from the file"))
		})

		It("attaches the caller identity from a bearer token", func() {
			body, contentType := multipartBody("report", "cbc.jpg", []byte("img"), nil)
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer good-token")

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(reportSvc.submitted[0].UserID).To(HaveValue(Equal(authSvc.tokenUser)))
		})

		It("proceeds anonymously on an invalid token", func() {
			body, contentType := multipartBody("report", "cbc.jpg", []byte("img"), nil)
			req := httptest.NewRequest(http.MethodPost, "/api/reports/analyze", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer forged")

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(reportSvc.submitted[0].UserID).To(BeNil())
		})
	})

	Describe("POST /api/prescription/analyze", func() {
		It("forces the handwritten pipeline", func() {
			body, contentType := multipartBody("prescription", "rx.png", []byte("img"), map[string]string{
				"reportType": "digital",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/prescription/analyze", body)
			req.Header.Set("Content-Type", contentType)

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(reportSvc.submitted[0].ReportType).To(Equal(constants.ReportTypeHandwritten))
		})
	})

	Describe("GET /api/reports/:reportId", func() {
		It("returns the record", func() {
			rep := completedReport()
			reportSvc.getRep = rep

			resp := do(httptest.NewRequest(http.MethodGet, "/api/reports/"+rep.ID.Hex(), nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			out := decodeJSON(resp)
			Expect(out["report"].(map[string]any)["id"]).To(Equal(rep.ID.Hex()))
		})

		It("returns 404 for an unknown id", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/reports/"+primitive.NewObjectID().Hex(), nil))
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 404 for a malformed id", func() {
			resp := do(httptest.NewRequest(http.MethodGet, "/api/reports/not-hex", nil))
			Expect(resp.Code).To(Equal(http.StatusNotFound))
			Expect(decodeJSON(resp)["message"]).To(Equal("Report not found"))
		})
	})

	Describe("GET /api/reports", func() {
		It("lists anonymously without a user filter", func() {
			reportSvc.listReps = []*entity.Report{completedReport()}
			resp := do(httptest.NewRequest(http.MethodGet, "/api/reports", nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(reportSvc.listUserID).To(BeNil())
			Expect(decodeJSON(resp)["reports"]).To(HaveLen(1))
		})

		It("filters by the authenticated caller", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
			req.Header.Set("Authorization", "Bearer good-token")
			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(reportSvc.listUserID).To(HaveValue(Equal(authSvc.tokenUser)))
		})
	})

	Describe("DELETE /api/reports/:reportId", func() {
		It("confirms the deletion", func() {
			resp := do(httptest.NewRequest(http.MethodDelete, "/api/reports/"+primitive.NewObjectID().Hex(), nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(decodeJSON(resp)["message"]).To(Equal("Report deleted successfully"))
		})

		It("returns 404 when the record is missing", func() {
			reportSvc.deleteErr = common.NotFoundError("report not found")
			resp := do(httptest.NewRequest(http.MethodDelete, "/api/reports/"+primitive.NewObjectID().Hex(), nil))
			Expect(resp.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /api/reports/translate/:reportId", func() {
		It("returns both translated sections", func() {
			reportSvc.translateRes = &reports.TranslationResult{
				Language: "Hindi",
				Report1:  "khand 1",
				Report2:  "khand 2",
			}
			body := strings.NewReader(`{"targetLanguage":"Hindi"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/reports/translate/"+primitive.NewObjectID().Hex(), body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusOK))
			out := decodeJSON(resp)
			Expect(out["translatedReport1"]).To(Equal("khand 1"))
			Expect(out["translatedReport2"]).To(Equal("khand 2"))
			Expect(reportSvc.translated).To(Equal([]string{"Hindi"}))
		})

		It("rejects a body that does not bind", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/reports/translate/"+primitive.NewObjectID().Hex(), strings.NewReader("{"))
			req.Header.Set("Content-Type", "application/json")
			Expect(do(req).Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /api/chat/query", func() {
		It("answers and echoes the query", func() {
			body := strings.NewReader(`{"query":"is this serious?","language":"Tamil"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/chat/query", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusOK))
			out := decodeJSON(resp)
			Expect(out["answer"]).To(Equal("rest and hydrate"))
			Expect(out["query"]).To(Equal("is this serious?"))
			Expect(chatSvc.requests[0].Language).To(Equal("Tamil"))
		})

		It("passes conversation history through", func() {
			body := strings.NewReader(`{"query":"why?","conversationHistory":[{"role":"user","content":"is this serious?"}]}`)
			req := httptest.NewRequest(http.MethodPost, "/api/chat/query", body)
			req.Header.Set("Content-Type", "application/json")

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(chatSvc.requests[0].History).To(HaveLen(1))
			Expect(chatSvc.requests[0].History[0].Content).To(Equal("is this serious?"))
		})

		It("rejects a missing query", func() {
			body := strings.NewReader(`{"language":"English"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/chat/query", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeJSON(resp)["message"]).To(Equal("Query is required"))
			Expect(chatSvc.requests).To(BeEmpty())
		})

		It("drops a malformed report id instead of failing", func() {
			body := strings.NewReader(`{"query":"q","reportId":"not-hex"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/chat/query", body)
			req.Header.Set("Content-Type", "application/json")

			Expect(do(req).Code).To(Equal(http.StatusOK))
			Expect(chatSvc.requests[0].ReportID).To(BeNil())
		})
	})

	Describe("auth routes", func() {
		It("registers and returns 201 with credentials", func() {
			body := strings.NewReader(`{"name":"Asha","email":"asha@example.com","password":"s3cret"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusCreated))
			out := decodeJSON(resp)
			Expect(out["token"]).To(Equal("issued-token"))
			Expect(out["user"].(map[string]any)["email"]).To(Equal("asha@example.com"))
		})

		It("maps duplicate registration to 400", func() {
			authSvc.registerErr = common.InvalidInputError("User already exists")
			body := strings.NewReader(`{"name":"Asha","email":"asha@example.com","password":"s3cret"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeJSON(resp)["message"]).To(Equal("User already exists"))
		})

		It("maps bad credentials to 401", func() {
			authSvc.loginErr = common.NewAppError("BAD_CREDENTIALS", "Invalid email or password", common.ErrUnauthorized)
			body := strings.NewReader(`{"email":"asha@example.com","password":"wrong"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusUnauthorized))
			Expect(decodeJSON(resp)["message"]).To(Equal("Invalid email or password"))
		})

		It("logs in and returns credentials", func() {
			body := strings.NewReader(`{"email":"asha@example.com","password":"s3cret"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
			req.Header.Set("Content-Type", "application/json")

			resp := do(req)
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(decodeJSON(resp)["token"]).To(Equal("issued-token"))
		})
	})

	Describe("CORS", func() {
		It("short-circuits preflight requests", func() {
			resp := do(httptest.NewRequest(http.MethodOptions, "/api/reports", nil))
			Expect(resp.Code).To(Equal(http.StatusOK))
			Expect(resp.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header().Get("Access-Control-Allow-Headers")).To(ContainSubstring("Authorization"))
		})
	})

	Describe("internal failures", func() {
		It("maps them to 500", func() {
			chatSvc.err = errors.New("model unavailable")
			body := strings.NewReader(`{"query":"q"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/chat/query", body)
			req.Header.Set("Content-Type", "application/json")

			Expect(do(req).Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
