package viewer

// Fullscreen quad that displays the ray traced frame

const quadVertexShader = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
`

const quadFragmentShader = `
#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D frame;

void main() {
    FragColor = vec4(texture(frame, TexCoord).rgb, 1.0);
}
`
